package bulkimport

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/salary"
)

// Store is the persistence surface the executor writes through.
type Store interface {
	ReplaceTemplate(ctx context.Context, userID, organization string, earnings, deductions []string) error
	UpsertRecord(ctx context.Context, userID string, in salary.RecordInput) (string, error)
	ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []salary.LineItem) error
}

type Executor struct {
	store Store
	log   *logrus.Logger

	// OnProgress, when set, fires after every confirmed record write with the
	// running processed count.
	OnProgress func(processed int)
}

func NewExecutor(store Store, log *logrus.Logger) *Executor {
	return &Executor{store: store, log: log}
}

// Execute applies a previously built plan. Bound violations soft-skip the
// record (logged, counted); any storage error aborts the whole remaining
// import. Counters only move after the corresponding write confirmed.
func (e *Executor) Execute(ctx context.Context, userID string, plan ImportPlan) (ImportSummary, error) {
	var summary ImportSummary
	for _, sheet := range plan.Sheets {
		if len(sheet.Records) == 0 {
			continue
		}

		earnings, deductions := categoryUnion(sheet.Records)
		if err := e.store.ReplaceTemplate(ctx, userID, sheet.SheetName, earnings, deductions); err != nil {
			return summary, fmt.Errorf("replace template for %q: %w", sheet.SheetName, err)
		}
		summary.TemplatesReplaced++

		for _, rec := range sheet.Records {
			if problems := boundProblems(rec); len(problems) > 0 {
				e.log.WithFields(logrus.Fields{
					"sheet": sheet.SheetName,
					"month": rec.Month,
					"year":  rec.Year,
				}).Warnf("import record skipped: %s", problems[0])
				summary.RecordsSkipped++
				continue
			}

			recordID, err := e.store.UpsertRecord(ctx, userID, recordInput(rec))
			if err != nil {
				return summary, fmt.Errorf("upsert record %d/%d for %q: %w", rec.Month, rec.Year, sheet.SheetName, err)
			}
			if err := e.store.ReplaceLineItems(ctx, recordID, rec.Earnings, rec.Deductions); err != nil {
				return summary, fmt.Errorf("replace line items for %d/%d: %w", rec.Month, rec.Year, err)
			}
			summary.RecordsProcessed++
			if e.OnProgress != nil {
				e.OnProgress(summary.RecordsProcessed)
			}
		}
		summary.SheetsProcessed++
	}
	return summary, nil
}

// recordInput maps a plan record onto a record write. Imported records carry
// no separate gross figure, so gross follows total earnings.
func recordInput(rec ParsedRecord) salary.RecordInput {
	return salary.RecordInput{
		Organization:    rec.Organization,
		Month:           rec.Month,
		Year:            rec.Year,
		TotalEarnings:   rec.TotalEarnings,
		TotalDeductions: rec.TotalDeductions,
		NetSalary:       rec.NetSalary,
		GrossSalary:     rec.TotalEarnings,
		Earnings:        rec.Earnings,
		Deductions:      rec.Deductions,
	}
}

// categoryUnion collects every category seen across a sheet's records in
// first-appearance order. The result replaces the organization's template.
func categoryUnion(records []ParsedRecord) (earnings, deductions []string) {
	seenEarnings := make(map[string]bool)
	seenDeductions := make(map[string]bool)
	for _, rec := range records {
		for _, item := range rec.Earnings {
			if !seenEarnings[item.Category] {
				seenEarnings[item.Category] = true
				earnings = append(earnings, item.Category)
			}
		}
		for _, item := range rec.Deductions {
			if !seenDeductions[item.Category] {
				seenDeductions[item.Category] = true
				deductions = append(deductions, item.Category)
			}
		}
	}
	return earnings, deductions
}

// boundProblems re-validates a record at write time. A record that passed
// structural parsing can still fall outside the period or amount bounds.
func boundProblems(rec ParsedRecord) []string {
	var problems []string
	if !salary.MonthInBounds(rec.Month) || !salary.YearInBounds(rec.Year) {
		problems = append(problems, fmt.Sprintf("period %d/%d out of range", rec.Month, rec.Year))
	}
	check := func(label string, amount decimal.Decimal) {
		if !salary.AmountInBounds(amount) {
			problems = append(problems, fmt.Sprintf("%s amount %s outside [0, %s]", label, amount, salary.MaxAmount))
		}
	}
	check("Total Earnings", rec.TotalEarnings)
	check("Total Deductions", rec.TotalDeductions)
	check("Net Salary", rec.NetSalary)
	for _, item := range rec.Earnings {
		check(item.Category, item.Amount)
	}
	for _, item := range rec.Deductions {
		check(item.Category, item.Amount)
	}
	return problems
}
