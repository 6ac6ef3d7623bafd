package bulkimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"paytrack/internal/domain/salary"
)

var monthAbbreviations = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// parseMonthYear parses "<MON> <YYYY>", e.g. "JAN 2025". Full month names
// match through their first three letters; the year must be four digits
// inside the supported range.
func parseMonthYear(raw string) (int, int, bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return 0, 0, false
	}
	token := strings.ToUpper(fields[0])
	if len(token) < 3 {
		return 0, 0, false
	}
	month, ok := monthAbbreviations[token[:3]]
	if !ok {
		return 0, 0, false
	}
	if len(fields[1]) != 4 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil || !salary.YearInBounds(year) {
		return 0, 0, false
	}
	return month, year, true
}

// coerceNumber turns a cell into an amount: every rune outside digits, '.',
// '+' and '-' is stripped first, so "₹80,000" parses as 80000. Empty or
// still-unparsable cells report absent rather than an error.
func coerceNumber(cell string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range cell {
		if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

func parseRow(sheetName string, headers []string, row map[string]string, rowNumber int,
	monthYearHeader string, reserved map[string]bool, orgEarnings, orgDeductions, extraKeywords []string) (*ParsedRecord, *InvalidRow) {

	rawPeriod := strings.TrimSpace(row[monthYearHeader])
	if rawPeriod == "" {
		return nil, &InvalidRow{SheetName: sheetName, RowNumber: rowNumber, Reason: "Missing Month/Year value"}
	}
	month, year, ok := parseMonthYear(rawPeriod)
	if !ok {
		return nil, &InvalidRow{
			SheetName: sheetName,
			RowNumber: rowNumber,
			Reason:    fmt.Sprintf("Invalid Month/Year value %q", rawPeriod),
		}
	}

	rec := &ParsedRecord{Organization: sheetName, Month: month, Year: year}
	for _, header := range headers {
		if header == monthYearHeader {
			continue
		}
		value, ok := coerceNumber(row[header])
		if !ok {
			continue
		}
		switch Classify(header, reserved, orgEarnings, orgDeductions, extraKeywords) {
		case KindReserved:
			switch strings.ToLower(strings.TrimSpace(header)) {
			case "total earnings":
				rec.TotalEarnings = value
			case "total deductions":
				rec.TotalDeductions = value
			case "net salary", "net pay":
				rec.NetSalary = value
			}
		case KindEarning:
			if value.IsZero() {
				continue
			}
			rec.Earnings = append(rec.Earnings, salary.LineItem{Category: header, Amount: value})
		case KindDeduction:
			if value.IsZero() {
				continue
			}
			rec.Deductions = append(rec.Deductions, salary.LineItem{Category: header, Amount: value})
		}
	}
	return rec, nil
}
