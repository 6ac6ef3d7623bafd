package bulkimport

import "strings"

type Kind int

const (
	KindReserved Kind = iota
	KindEarning
	KindDeduction
)

// deductionKeywords is the fixed heuristic vocabulary. A lower-cased header
// containing any of these lands in deductions unless an exact category match
// already placed it.
var deductionKeywords = []string{
	"tax", "pf", "provident", "esi", "insurance",
	"professional", "labour", "welfare", "recovery", "loan",
}

// reservedColumns are matched case-insensitively; "net pay" is the label the
// workbook export writes, so round-tripped files stay importable.
var reservedColumns = []string{"total earnings", "total deductions", "net salary", "net pay"}

// Classify routes one column header. The order is load-bearing: reserved
// first, then exact matches against the organization's lists, then the
// keyword heuristic, and earnings as the default bucket for anything new.
func Classify(header string, reserved map[string]bool, orgEarnings, orgDeductions, extraKeywords []string) Kind {
	if reserved[strings.ToLower(strings.TrimSpace(header))] {
		return KindReserved
	}
	for _, category := range orgEarnings {
		if header == category {
			return KindEarning
		}
	}
	for _, category := range orgDeductions {
		if header == category {
			return KindDeduction
		}
	}
	lower := strings.ToLower(header)
	for _, keyword := range deductionKeywords {
		if strings.Contains(lower, keyword) {
			return KindDeduction
		}
	}
	for _, keyword := range extraKeywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return KindDeduction
		}
	}
	return KindEarning
}

// reservedSet builds the reserved header set for one sheet: the month-year
// column plus the totals columns.
func reservedSet(monthYearHeader string) map[string]bool {
	reserved := make(map[string]bool, len(reservedColumns)+1)
	reserved[strings.ToLower(strings.TrimSpace(monthYearHeader))] = true
	for _, column := range reservedColumns {
		reserved[column] = true
	}
	return reserved
}

// monthYearColumn picks the column carrying the period: the first header
// containing both "month" and "year" case-insensitively, else the first
// column.
func monthYearColumn(headers []string) string {
	for _, header := range headers {
		lower := strings.ToLower(header)
		if strings.Contains(lower, "month") && strings.Contains(lower, "year") {
			return header
		}
	}
	if len(headers) > 0 {
		return headers[0]
	}
	return ""
}
