package bulkimport

import "testing"

func TestClassifyReservedHeaders(t *testing.T) {
	reserved := reservedSet("Month Year")
	for _, header := range []string{"Month Year", "Total Earnings", "total earnings", "Total Deductions", "Net Salary", "NET PAY", " Net Pay "} {
		if got := Classify(header, reserved, nil, nil, nil); got != KindReserved {
			t.Errorf("Classify(%q) = %v, want KindReserved", header, got)
		}
	}
}

func TestClassifyExactMatchBeatsKeyword(t *testing.T) {
	reserved := reservedSet("Month Year")
	earnings := []string{"Tax Saver Allowance"}

	if got := Classify("Tax Saver Allowance", reserved, earnings, nil, nil); got != KindEarning {
		t.Fatalf("exact earning match should win over the tax keyword, got %v", got)
	}
}

func TestClassifyExactDeduction(t *testing.T) {
	reserved := reservedSet("Month Year")
	deductions := []string{"Mess Charges"}

	if got := Classify("Mess Charges", reserved, nil, deductions, nil); got != KindDeduction {
		t.Fatalf("expected KindDeduction, got %v", got)
	}
}

func TestClassifyKeywordHeuristic(t *testing.T) {
	reserved := reservedSet("Month Year")
	for _, header := range []string{
		"Income Tax", "EPF", "Provident Fund", "ESI Contribution",
		"Life Insurance Premium", "Professional Tax", "Labour Welfare Fund",
		"Staff Welfare", "Advance Recovery", "Car Loan EMI",
	} {
		if got := Classify(header, reserved, nil, nil, nil); got != KindDeduction {
			t.Errorf("Classify(%q) = %v, want KindDeduction", header, got)
		}
	}
}

func TestClassifyOrganizationKeyword(t *testing.T) {
	reserved := reservedSet("Month Year")

	if got := Classify("TDS", reserved, nil, nil, []string{"tds"}); got != KindDeduction {
		t.Fatalf("expected organization keyword to classify TDS as deduction, got %v", got)
	}
	if got := Classify("TDS", reserved, nil, nil, nil); got != KindEarning {
		t.Fatalf("without the keyword TDS should default to earning, got %v", got)
	}
}

func TestClassifyDefaultsToEarning(t *testing.T) {
	reserved := reservedSet("Month Year")
	for _, header := range []string{"Special Bonus", "Arrears", "Overtime"} {
		if got := Classify(header, reserved, nil, nil, nil); got != KindEarning {
			t.Errorf("Classify(%q) = %v, want KindEarning", header, got)
		}
	}
}

func TestMonthYearColumn(t *testing.T) {
	if got := monthYearColumn([]string{"Employee", "Month Year", "Basic Salary"}); got != "Month Year" {
		t.Fatalf("expected Month Year column, got %q", got)
	}
	if got := monthYearColumn([]string{"Period", "Basic Salary"}); got != "Period" {
		t.Fatalf("expected first-column fallback, got %q", got)
	}
	if got := monthYearColumn([]string{"month-YEAR", "Basic"}); got != "month-YEAR" {
		t.Fatalf("expected case-insensitive match, got %q", got)
	}
}
