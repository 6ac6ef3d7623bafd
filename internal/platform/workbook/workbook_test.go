package workbook

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	in := []WriteSheet{
		{
			Name:    "TCS",
			Headers: []string{"Month Year", "Basic Salary", "HRA", "Income Tax", "Net Pay"},
			Rows: []map[string]any{
				{"Month Year": "JAN 2025", "Basic Salary": 80000.0, "HRA": 32000.0, "Income Tax": 18000.0, "Net Pay": 94000.0},
				{"Month Year": "FEB 2025", "Basic Salary": 80000.0, "HRA": 32000.5, "Net Pay": 112000.5},
			},
		},
		{
			Name:    "Globex",
			Headers: []string{"Month Year", "Basic Salary"},
			Rows: []map[string]any{
				{"Month Year": "MAR 2025", "Basic Salary": 51000.0},
			},
		},
	}

	out, err := Write(in)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	sheets, err := Read(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}

	tcs := sheets[0]
	if tcs.Name != "TCS" {
		t.Fatalf("expected first sheet TCS, got %q", tcs.Name)
	}
	if len(tcs.Headers) != 5 || tcs.Headers[0] != "Month Year" || tcs.Headers[4] != "Net Pay" {
		t.Fatalf("header order not preserved: %v", tcs.Headers)
	}
	if len(tcs.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(tcs.Rows))
	}
	if got := tcs.Rows[0]["Basic Salary"]; got != "80000" {
		t.Fatalf("expected numeric cell to read back as 80000, got %q", got)
	}
	if got := tcs.Rows[1]["HRA"]; got != "32000.5" {
		t.Fatalf("expected fractional cell to read back as 32000.5, got %q", got)
	}
	if _, ok := tcs.Rows[1]["Income Tax"]; ok {
		t.Fatal("absent cell should not appear in the row map")
	}
	if got := tcs.Rows[0]["Month Year"]; got != "JAN 2025" {
		t.Fatalf("expected month label JAN 2025, got %q", got)
	}
}

func TestReadSkipsBlankCells(t *testing.T) {
	out, err := Write([]WriteSheet{{
		Name:    "Acme",
		Headers: []string{"Month Year", "Basic", ""},
		Rows: []map[string]any{
			{"Month Year": "APR 2024"},
		},
	}})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	sheets, err := Read(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	row := sheets[0].Rows[0]
	if len(row) != 1 {
		t.Fatalf("expected a single populated cell, got %v", row)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"TCS", "TCS"},
		{"", "Sheet"},
		{"A/B:C", "A-B-C"},
		{"This Organization Name Is Far Too Long For Excel", "This Organization Name Is Far T"},
	}
	for _, tc := range cases {
		if got := sanitizeSheetName(tc.in); got != tc.want {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
