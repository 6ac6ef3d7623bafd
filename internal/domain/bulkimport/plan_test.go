package bulkimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"paytrack/internal/domain/orgs"
	"paytrack/internal/platform/workbook"
)

func TestBuildPlanWorkedExample(t *testing.T) {
	sheets := []workbook.Sheet{{
		Name:    "TCS",
		Headers: tcsHeaders(),
		Rows:    []map[string]string{tcsRow()},
	}}

	plan := BuildPlan(sheets, nil)

	if len(plan.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(plan.Sheets))
	}
	if plan.TotalRecordsToImport != 1 || plan.TotalSkippedRows != 0 {
		t.Fatalf("unexpected totals: %d records, %d skipped", plan.TotalRecordsToImport, plan.TotalSkippedRows)
	}
	if len(plan.InvalidRows) != 0 || len(plan.Warnings) != 0 {
		t.Fatalf("expected clean plan, got invalid=%v warnings=%v", plan.InvalidRows, plan.Warnings)
	}

	rec := plan.Sheets[0].Records[0]
	if rec.Organization != "TCS" || rec.Month != 1 || rec.Year != 2025 {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if len(rec.Earnings) != 2 || len(rec.Deductions) != 2 {
		t.Fatalf("unexpected line items: %+v", rec)
	}
}

func TestBuildPlanDropsSheetsWithNothingParsed(t *testing.T) {
	sheets := []workbook.Sheet{
		{Name: "Cover", Headers: []string{"Notes"}, Rows: nil},
		{Name: "TCS", Headers: tcsHeaders(), Rows: []map[string]string{tcsRow()}},
	}

	plan := BuildPlan(sheets, nil)
	if len(plan.Sheets) != 1 || plan.Sheets[0].SheetName != "TCS" {
		t.Fatalf("cover sheet should be dropped, got %+v", plan.Sheets)
	}
}

func TestBuildPlanKeepsSheetsWithOnlyInvalidRows(t *testing.T) {
	badRow := tcsRow()
	badRow["Month Year"] = "sometime"

	plan := BuildPlan([]workbook.Sheet{{
		Name:    "TCS",
		Headers: tcsHeaders(),
		Rows:    []map[string]string{badRow},
	}}, nil)

	if len(plan.Sheets) != 1 {
		t.Fatalf("sheet with invalid rows must stay in the plan, got %+v", plan.Sheets)
	}
	if plan.Sheets[0].SkippedRows != 1 || plan.TotalSkippedRows != 1 {
		t.Fatalf("expected 1 skipped row, got %+v", plan.Sheets[0])
	}
	if len(plan.InvalidRows) != 1 || plan.InvalidRows[0].RowNumber != 2 {
		t.Fatalf("expected invalid row at spreadsheet row 2, got %+v", plan.InvalidRows)
	}
}

func TestBuildPlanRowNumbersAreSpreadsheetRows(t *testing.T) {
	rows := []map[string]string{
		tcsRow(),
		{"Month Year": "bad"},
		tcsRowFor("FEB 2025"),
	}

	plan := BuildPlan([]workbook.Sheet{{Name: "TCS", Headers: tcsHeaders(), Rows: rows}}, nil)
	if len(plan.InvalidRows) != 1 {
		t.Fatalf("expected 1 invalid row, got %+v", plan.InvalidRows)
	}
	// header is row 1, so the second data row is spreadsheet row 3
	if plan.InvalidRows[0].RowNumber != 3 {
		t.Fatalf("expected row 3, got %d", plan.InvalidRows[0].RowNumber)
	}
	if plan.TotalRecordsToImport != 2 {
		t.Fatalf("expected 2 records, got %d", plan.TotalRecordsToImport)
	}
}

func tcsRowFor(period string) map[string]string {
	row := tcsRow()
	row["Month Year"] = period
	return row
}

func TestBuildPlanWarnsOnBoundViolations(t *testing.T) {
	row := tcsRow()
	row["Basic Salary"] = "150000000"

	plan := BuildPlan([]workbook.Sheet{{Name: "TCS", Headers: tcsHeaders(), Rows: []map[string]string{row}}}, nil)

	if plan.TotalRecordsToImport != 1 {
		t.Fatalf("out-of-range record must still parse into the plan, got %d records", plan.TotalRecordsToImport)
	}
	if len(plan.Warnings) == 0 {
		t.Fatal("expected a bound warning")
	}
	w := plan.Warnings[0]
	if w.SheetName != "TCS" || w.RowNumber != 2 || !strings.Contains(w.Message, "Basic Salary") {
		t.Fatalf("unexpected warning: %+v", w)
	}
}

func TestBuildPlanUsesTemplateCategories(t *testing.T) {
	templates := map[string]orgs.Template{
		"Acme": {Name: "Acme", DeductionCategories: []string{"Mess Charges"}},
	}
	sheets := []workbook.Sheet{{
		Name:    "Acme",
		Headers: []string{"Month Year", "Mess Charges"},
		Rows:    []map[string]string{{"Month Year": "JAN 2024", "Mess Charges": "1200"}},
	}}

	plan := BuildPlan(sheets, templates)
	rec := plan.Sheets[0].Records[0]
	if len(rec.Deductions) != 1 || rec.Deductions[0].Category != "Mess Charges" {
		t.Fatalf("template category should classify as deduction, got %+v", rec)
	}
	if !rec.Deductions[0].Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected amount %s", rec.Deductions[0].Amount)
	}
}
