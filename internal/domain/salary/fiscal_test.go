package salary

import "testing"

func TestFinancialYearLabel(t *testing.T) {
	cases := []struct {
		month, year int
		want        string
	}{
		{4, 2024, "FY 2024-2025"},
		{12, 2024, "FY 2024-2025"},
		{1, 2025, "FY 2024-2025"},
		{3, 2025, "FY 2024-2025"},
		{4, 2025, "FY 2025-2026"},
	}
	for _, c := range cases {
		if got := FinancialYearLabel(c.month, c.year); got != c.want {
			t.Errorf("FinancialYearLabel(%d, %d) = %q, want %q", c.month, c.year, got, c.want)
		}
	}
}

func TestParseFinancialYear(t *testing.T) {
	start, err := ParseFinancialYear("2024-2025")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if start != 2024 {
		t.Fatalf("expected 2024, got %d", start)
	}

	start, err = ParseFinancialYear("FY 2019-2020")
	if err != nil {
		t.Fatalf("parse with prefix failed: %v", err)
	}
	if start != 2019 {
		t.Fatalf("expected 2019, got %d", start)
	}

	for _, raw := range []string{"", "2024", "2024-2026", "1800-1801", "next year"} {
		if _, err := ParseFinancialYear(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}
