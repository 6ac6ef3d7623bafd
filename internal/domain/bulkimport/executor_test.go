package bulkimport

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/salary"
)

type templateCall struct {
	organization string
	earnings     []string
	deductions   []string
}

type recordingStore struct {
	templates    []templateCall
	upserts      []salary.RecordInput
	replacedFor  []string
	failUpsertAt int // 1-based index of the upsert call that fails; 0 = never
	upsertCalls  int
}

func (s *recordingStore) ReplaceTemplate(ctx context.Context, userID, organization string, earnings, deductions []string) error {
	s.templates = append(s.templates, templateCall{organization, earnings, deductions})
	return nil
}

func (s *recordingStore) UpsertRecord(ctx context.Context, userID string, in salary.RecordInput) (string, error) {
	s.upsertCalls++
	if s.failUpsertAt != 0 && s.upsertCalls == s.failUpsertAt {
		return "", errors.New("connection reset")
	}
	s.upserts = append(s.upserts, in)
	return "rec-1", nil
}

func (s *recordingStore) ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []salary.LineItem) error {
	s.replacedFor = append(s.replacedFor, recordID)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func planRecord(org string, month, year int, earnings, deductions []salary.LineItem) ParsedRecord {
	var totalEarnings, totalDeductions decimal.Decimal
	for _, item := range earnings {
		totalEarnings = totalEarnings.Add(item.Amount)
	}
	for _, item := range deductions {
		totalDeductions = totalDeductions.Add(item.Amount)
	}
	return ParsedRecord{
		Organization:    org,
		Month:           month,
		Year:            year,
		Earnings:        earnings,
		Deductions:      deductions,
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		NetSalary:       totalEarnings.Sub(totalDeductions),
	}
}

func TestExecuteAppliesPlan(t *testing.T) {
	store := &recordingStore{}
	exec := NewExecutor(store, quietLogger())

	plan := ImportPlan{Sheets: []SheetPlan{{
		SheetName: "TCS",
		Records: []ParsedRecord{
			planRecord("TCS", 1, 2025,
				[]salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(80000)}, {Category: "HRA", Amount: decimal.NewFromInt(32000)}},
				[]salary.LineItem{{Category: "Income Tax", Amount: decimal.NewFromInt(18000)}}),
			planRecord("TCS", 2, 2025,
				[]salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(80000)}, {Category: "Bonus", Amount: decimal.NewFromInt(5000)}},
				[]salary.LineItem{{Category: "Provident Fund", Amount: decimal.NewFromInt(9600)}}),
		},
	}}}

	summary, err := exec.Execute(context.Background(), "u1", plan)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if summary.SheetsProcessed != 1 || summary.TemplatesReplaced != 1 ||
		summary.RecordsProcessed != 2 || summary.RecordsSkipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if len(store.templates) != 1 {
		t.Fatalf("expected one template replace, got %d", len(store.templates))
	}
	wantEarnings := []string{"Basic Salary", "HRA", "Bonus"}
	wantDeductions := []string{"Income Tax", "Provident Fund"}
	if !reflect.DeepEqual(store.templates[0].earnings, wantEarnings) {
		t.Fatalf("union order wrong: %v", store.templates[0].earnings)
	}
	if !reflect.DeepEqual(store.templates[0].deductions, wantDeductions) {
		t.Fatalf("union order wrong: %v", store.templates[0].deductions)
	}

	if len(store.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(store.upserts))
	}
	first := store.upserts[0]
	if !first.GrossSalary.Equal(first.TotalEarnings) {
		t.Fatalf("gross should follow total earnings, got %s vs %s", first.GrossSalary, first.TotalEarnings)
	}
	if len(store.replacedFor) != 2 {
		t.Fatalf("expected line items replaced per record, got %d", len(store.replacedFor))
	}
}

func TestExecuteSoftSkipsBoundViolations(t *testing.T) {
	store := &recordingStore{}
	exec := NewExecutor(store, quietLogger())

	good := planRecord("TCS", 1, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(80000)}}, nil)
	bad := planRecord("TCS", 2, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(200_000_000)}}, nil)

	summary, err := exec.Execute(context.Background(), "u1", ImportPlan{Sheets: []SheetPlan{{
		SheetName: "TCS",
		Records:   []ParsedRecord{good, bad},
	}}})
	if err != nil {
		t.Fatalf("bound violations must not abort the import: %v", err)
	}
	if summary.RecordsProcessed != 1 || summary.RecordsSkipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// The union still reflects every record on the sheet, skipped or not.
	if !reflect.DeepEqual(store.templates[0].earnings, []string{"Basic Salary"}) {
		t.Fatalf("unexpected template union: %v", store.templates[0].earnings)
	}
}

func TestExecuteAbortsOnStorageError(t *testing.T) {
	store := &recordingStore{failUpsertAt: 2}
	exec := NewExecutor(store, quietLogger())

	plan := ImportPlan{Sheets: []SheetPlan{{
		SheetName: "TCS",
		Records: []ParsedRecord{
			planRecord("TCS", 1, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(1)}}, nil),
			planRecord("TCS", 2, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(2)}}, nil),
			planRecord("TCS", 3, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(3)}}, nil),
		},
	}}}

	summary, err := exec.Execute(context.Background(), "u1", plan)
	if err == nil {
		t.Fatal("expected a storage error")
	}
	if summary.RecordsProcessed != 1 {
		t.Fatalf("expected 1 confirmed record before the abort, got %d", summary.RecordsProcessed)
	}
	if store.upsertCalls != 2 {
		t.Fatalf("no records after the failure may be attempted, got %d upsert calls", store.upsertCalls)
	}
}

func TestExecuteSkipsSheetsWithoutRecords(t *testing.T) {
	store := &recordingStore{}
	exec := NewExecutor(store, quietLogger())

	summary, err := exec.Execute(context.Background(), "u1", ImportPlan{Sheets: []SheetPlan{{
		SheetName:   "TCS",
		SkippedRows: 3,
	}}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if len(store.templates) != 0 {
		t.Fatal("a sheet with zero records must not touch its template")
	}
	if summary.SheetsProcessed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestExecuteReportsProgress(t *testing.T) {
	store := &recordingStore{}
	exec := NewExecutor(store, quietLogger())

	var ticks []int
	exec.OnProgress = func(processed int) { ticks = append(ticks, processed) }

	plan := ImportPlan{Sheets: []SheetPlan{{
		SheetName: "TCS",
		Records: []ParsedRecord{
			planRecord("TCS", 1, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(1)}}, nil),
			planRecord("TCS", 2, 2025, []salary.LineItem{{Category: "Basic Salary", Amount: decimal.NewFromInt(2)}}, nil),
		},
	}}}

	if _, err := exec.Execute(context.Background(), "u1", plan); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !reflect.DeepEqual(ticks, []int{1, 2}) {
		t.Fatalf("expected progress [1 2], got %v", ticks)
	}
}
