package salary

import "github.com/shopspring/decimal"

const (
	MinMonth = 1
	MaxMonth = 12
	MinYear  = 2000
	MaxYear  = 2100
)

// MaxAmount is the upper bound for any single amount, total or line item.
var MaxAmount = decimal.NewFromInt(100_000_000)

func AmountInBounds(amount decimal.Decimal) bool {
	return !amount.IsNegative() && amount.LessThanOrEqual(MaxAmount)
}

func MonthInBounds(month int) bool {
	return month >= MinMonth && month <= MaxMonth
}

func YearInBounds(year int) bool {
	return year >= MinYear && year <= MaxYear
}
