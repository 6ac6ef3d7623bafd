package bulkimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMonthYear(t *testing.T) {
	cases := []struct {
		raw         string
		month, year int
		ok          bool
	}{
		{"JAN 2025", 1, 2025, true},
		{"jan 2025", 1, 2025, true},
		{"January 2025", 1, 2025, true},
		{"SEPT 2024", 9, 2024, true},
		{"DEC 2100", 12, 2100, true},
		{"APR  2023", 4, 2023, true},
		{"2025 JAN", 0, 0, false},
		{"JAN 25", 0, 0, false},
		{"JAN 1999", 0, 0, false},
		{"JAN 2101", 0, 0, false},
		{"FOO 2025", 0, 0, false},
		{"JAN2025", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		month, year, ok := parseMonthYear(c.raw)
		if ok != c.ok || month != c.month || year != c.year {
			t.Errorf("parseMonthYear(%q) = (%d, %d, %v), want (%d, %d, %v)", c.raw, month, year, ok, c.month, c.year, c.ok)
		}
	}
}

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"80000", "80000", true},
		{" 9600 ", "9600", true},
		{"₹1,23,456.78", "123456.78", true},
		{"12.5%", "12.5", true},
		{"-500", "-500", true},
		{"Rs. 32000", "0.32", true},
		{"abc", "", false},
		{"", "", false},
		{"1.2.3", "", false},
	}
	for _, c := range cases {
		got, ok := coerceNumber(c.raw)
		if ok != c.ok {
			t.Errorf("coerceNumber(%q) ok = %v, want %v", c.raw, ok, c.ok)
			continue
		}
		if c.ok {
			want, _ := decimal.NewFromString(c.want)
			if !got.Equal(want) {
				t.Errorf("coerceNumber(%q) = %s, want %s", c.raw, got, c.want)
			}
		}
	}
}

func tcsHeaders() []string {
	return []string{"Month Year", "Basic Salary", "HRA", "Income Tax", "Provident Fund", "Total Earnings", "Total Deductions", "Net Salary"}
}

func tcsRow() map[string]string {
	return map[string]string{
		"Month Year":       "JAN 2025",
		"Basic Salary":     "80000",
		"HRA":              "32000",
		"Income Tax":       "18000",
		"Provident Fund":   "9600",
		"Total Earnings":   "112000",
		"Total Deductions": "27600",
		"Net Salary":       "84400",
	}
}

func parseTCSRow(t *testing.T, headers []string, row map[string]string) *ParsedRecord {
	t.Helper()
	profile, ok := LookupOrganization("TCS")
	if !ok {
		t.Fatal("TCS missing from the registry")
	}
	monthYearHeader := monthYearColumn(headers)
	rec, invalid := parseRow("TCS", headers, row, 2, monthYearHeader, reservedSet(monthYearHeader),
		profile.EarningCategories, profile.DeductionCategories, profile.DeductionKeywords)
	if invalid != nil {
		t.Fatalf("unexpected invalid row: %+v", invalid)
	}
	return rec
}

func TestParseRowWorkedExample(t *testing.T) {
	rec := parseTCSRow(t, tcsHeaders(), tcsRow())

	if rec.Month != 1 || rec.Year != 2025 {
		t.Fatalf("expected January 2025, got %d/%d", rec.Month, rec.Year)
	}
	if len(rec.Earnings) != 2 || rec.Earnings[0].Category != "Basic Salary" || rec.Earnings[1].Category != "HRA" {
		t.Fatalf("unexpected earnings: %+v", rec.Earnings)
	}
	if !rec.Earnings[0].Amount.Equal(decimal.NewFromInt(80000)) || !rec.Earnings[1].Amount.Equal(decimal.NewFromInt(32000)) {
		t.Fatalf("unexpected earning amounts: %+v", rec.Earnings)
	}
	if len(rec.Deductions) != 2 || rec.Deductions[0].Category != "Income Tax" || rec.Deductions[1].Category != "Provident Fund" {
		t.Fatalf("unexpected deductions: %+v", rec.Deductions)
	}
	if !rec.Deductions[0].Amount.Equal(decimal.NewFromInt(18000)) || !rec.Deductions[1].Amount.Equal(decimal.NewFromInt(9600)) {
		t.Fatalf("unexpected deduction amounts: %+v", rec.Deductions)
	}
	if !rec.TotalEarnings.Equal(decimal.NewFromInt(112000)) ||
		!rec.TotalDeductions.Equal(decimal.NewFromInt(27600)) ||
		!rec.NetSalary.Equal(decimal.NewFromInt(84400)) {
		t.Fatalf("unexpected declared totals: %s %s %s", rec.TotalEarnings, rec.TotalDeductions, rec.NetSalary)
	}
}

func TestParseRowMissingMonthYear(t *testing.T) {
	row := tcsRow()
	row["Month Year"] = "  "
	headers := tcsHeaders()
	monthYearHeader := monthYearColumn(headers)

	rec, invalid := parseRow("TCS", headers, row, 5, monthYearHeader, reservedSet(monthYearHeader), nil, nil, nil)
	if rec != nil || invalid == nil {
		t.Fatal("expected an invalid row")
	}
	if invalid.Reason != "Missing Month/Year value" {
		t.Fatalf("unexpected reason: %q", invalid.Reason)
	}
	if invalid.RowNumber != 5 || invalid.SheetName != "TCS" {
		t.Fatalf("unexpected location: %+v", invalid)
	}
}

func TestParseRowInvalidMonthYearEchoesRaw(t *testing.T) {
	row := tcsRow()
	row["Month Year"] = "Quarter 1"
	headers := tcsHeaders()
	monthYearHeader := monthYearColumn(headers)

	_, invalid := parseRow("TCS", headers, row, 3, monthYearHeader, reservedSet(monthYearHeader), nil, nil, nil)
	if invalid == nil {
		t.Fatal("expected an invalid row")
	}
	if !strings.Contains(invalid.Reason, "Quarter 1") {
		t.Fatalf("reason should echo the raw value, got %q", invalid.Reason)
	}
}

func TestParseRowExcludesZeroAndBlankCells(t *testing.T) {
	headers := append(tcsHeaders(), "Bonus", "Overtime", "Notes")
	row := tcsRow()
	row["Bonus"] = "0"
	row["Overtime"] = ""
	row["Notes"] = "paid late"

	rec := parseTCSRow(t, headers, row)
	for _, item := range append(rec.Earnings, rec.Deductions...) {
		if item.Category == "Bonus" || item.Category == "Overtime" || item.Category == "Notes" {
			t.Fatalf("cell %q should have been excluded", item.Category)
		}
	}
}

func TestParseRowDefaultsDeclaredTotals(t *testing.T) {
	headers := []string{"Month Year", "Basic Salary"}
	row := map[string]string{"Month Year": "FEB 2024", "Basic Salary": "50000"}
	monthYearHeader := monthYearColumn(headers)

	rec, invalid := parseRow("Acme", headers, row, 2, monthYearHeader, reservedSet(monthYearHeader), nil, nil, nil)
	if invalid != nil {
		t.Fatalf("unexpected invalid row: %+v", invalid)
	}
	if !rec.TotalEarnings.IsZero() || !rec.TotalDeductions.IsZero() || !rec.NetSalary.IsZero() {
		t.Fatalf("absent totals should default to zero, got %s %s %s", rec.TotalEarnings, rec.TotalDeductions, rec.NetSalary)
	}
}

func TestParseRowFirstColumnFallback(t *testing.T) {
	headers := []string{"Period", "Basic Salary"}
	row := map[string]string{"Period": "MAR 2024", "Basic Salary": "45000"}
	monthYearHeader := monthYearColumn(headers)

	rec, invalid := parseRow("Acme", headers, row, 2, monthYearHeader, reservedSet(monthYearHeader), nil, nil, nil)
	if invalid != nil {
		t.Fatalf("unexpected invalid row: %+v", invalid)
	}
	if rec.Month != 3 || rec.Year != 2024 {
		t.Fatalf("expected March 2024, got %d/%d", rec.Month, rec.Year)
	}
}

func TestParseRowNetPayPopulatesNetSalary(t *testing.T) {
	headers := []string{"Month Year", "Basic Salary", "Net Pay"}
	row := map[string]string{"Month Year": "JUN 2024", "Basic Salary": "60000", "Net Pay": "54000"}
	monthYearHeader := monthYearColumn(headers)

	rec, invalid := parseRow("Acme", headers, row, 2, monthYearHeader, reservedSet(monthYearHeader), nil, nil, nil)
	if invalid != nil {
		t.Fatalf("unexpected invalid row: %+v", invalid)
	}
	if !rec.NetSalary.Equal(decimal.NewFromInt(54000)) {
		t.Fatalf("expected net 54000, got %s", rec.NetSalary)
	}
	if len(rec.Earnings) != 1 {
		t.Fatalf("Net Pay must not become a line item: %+v", rec.Earnings)
	}
}
