package profile

import (
	"errors"
	"testing"

	"paytrack/internal/domain/salary"
)

func TestNormalizeEmployment(t *testing.T) {
	in := EmploymentInput{Organization: " TCS ", StartMonth: 6, StartYear: 2022, IsCurrent: true, EndMonth: 3, EndYear: 2024}
	if err := normalizeEmployment(&in); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if in.Organization != "TCS" {
		t.Fatalf("expected trimmed organization, got %q", in.Organization)
	}
	if in.EndMonth != 0 || in.EndYear != 0 {
		t.Fatal("current stint should clear the end period")
	}
}

func TestNormalizeEmploymentRejectsEndBeforeStart(t *testing.T) {
	in := EmploymentInput{Organization: "TCS", StartMonth: 6, StartYear: 2022, EndMonth: 5, EndYear: 2022}
	if err := normalizeEmployment(&in); !errors.Is(err, salary.ErrPeriodOutOfRange) {
		t.Fatalf("expected ErrPeriodOutOfRange, got %v", err)
	}
}

func TestNormalizeEmploymentRejectsBadStart(t *testing.T) {
	in := EmploymentInput{Organization: "TCS", StartMonth: 13, StartYear: 2022}
	if err := normalizeEmployment(&in); !errors.Is(err, salary.ErrPeriodOutOfRange) {
		t.Fatalf("expected ErrPeriodOutOfRange, got %v", err)
	}
}
