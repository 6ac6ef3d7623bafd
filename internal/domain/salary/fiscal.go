package salary

import (
	"fmt"
	"strings"
)

// FiscalStartYear returns the calendar year an April-March financial year
// starts in: April onwards belongs to the year itself, January-March to the
// previous one.
func FiscalStartYear(month, year int) int {
	if month >= 4 {
		return year
	}
	return year - 1
}

// FinancialYearLabel formats the financial year a month falls in,
// e.g. (1, 2025) -> "FY 2024-2025".
func FinancialYearLabel(month, year int) string {
	start := FiscalStartYear(month, year)
	return fmt.Sprintf("FY %d-%d", start, start+1)
}

// ParseFinancialYear resolves a label like "2024-2025" or "FY 2024-2025" to
// its starting calendar year.
func ParseFinancialYear(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "FY ")
	cleaned = strings.TrimPrefix(cleaned, "fy ")

	var start, end int
	if _, err := fmt.Sscanf(cleaned, "%d-%d", &start, &end); err != nil {
		return 0, ErrInvalidFiscalYear
	}
	if end != start+1 || !YearInBounds(start) {
		return 0, ErrInvalidFiscalYear
	}
	return start, nil
}
