package salary

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRenderPayslip(t *testing.T) {
	rec := Record{
		Organization:    "TCS",
		Month:           1,
		Year:            2025,
		TotalEarnings:   decimal.NewFromInt(112000),
		TotalDeductions: decimal.NewFromInt(27600),
		NetSalary:       decimal.NewFromInt(84400),
		Earnings: []LineItem{
			{Category: "Basic Salary", Amount: decimal.NewFromInt(80000)},
			{Category: "HRA", Amount: decimal.NewFromInt(32000)},
		},
		Deductions: []LineItem{
			{Category: "Income Tax", Amount: decimal.NewFromInt(18000)},
			{Category: "Provident Fund", Amount: decimal.NewFromInt(9600)},
		},
	}

	var buf bytes.Buffer
	if err := RenderPayslip(&buf, rec, "A User", "INR"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected PDF bytes")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", buf.Bytes()[:8])
	}
}
