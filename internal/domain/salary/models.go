package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	ID          string          `json:"id,omitempty"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

type Record struct {
	ID              string          `json:"id"`
	Organization    string          `json:"organization"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	FinancialYear   string          `json:"financialYear"`
	Earnings        []LineItem      `json:"earnings,omitempty"`
	Deductions      []LineItem      `json:"deductions,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// RecordInput carries everything a write needs. GrossSalary may be zero, in
// which case it defaults to TotalEarnings.
type RecordInput struct {
	Organization    string
	Month           int
	Year            int
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	GrossSalary     decimal.Decimal
	Earnings        []LineItem
	Deductions      []LineItem
}

// Filter narrows record listings. FiscalStart is the starting calendar year
// of an April-March financial year; zero values mean no filter.
type Filter struct {
	Organization string
	FiscalStart  int
	Year         int
	Month        int
}
