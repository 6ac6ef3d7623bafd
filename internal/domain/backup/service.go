package backup

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/budget"
	"paytrack/internal/domain/orgs"
	"paytrack/internal/domain/profile"
	"paytrack/internal/domain/salary"
)

// Store is the persistence surface backups read and write through.
type Store interface {
	ListRecords(ctx context.Context, userID string) ([]salary.Record, error)
	ListTemplates(ctx context.Context, userID string) ([]orgs.Template, error)
	ListEmployment(ctx context.Context, userID string) ([]profile.Employment, error)
	ListBudgets(ctx context.Context, userID string) ([]budget.Budget, error)
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)

	CountRecords(ctx context.Context, userID string) (int, error)
	CountTemplates(ctx context.Context, userID string) (int, error)
	CountEmployment(ctx context.Context, userID string) (int, error)
	CountBudgets(ctx context.Context, userID string) (int, error)

	WipeRecords(ctx context.Context, userID string) (int, error)
	WipeTemplates(ctx context.Context, userID string) (int, error)
	WipeEmployment(ctx context.Context, userID string) (int, error)
	WipeBudgets(ctx context.Context, userID string) (int, error)
	DeleteProfile(ctx context.Context, userID string) error

	ReplaceTemplate(ctx context.Context, userID, name string, earnings, deductions []string) error
	UpsertRecord(ctx context.Context, userID string, in salary.RecordInput) (string, error)
	ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []salary.LineItem) error
	CreateEmployment(ctx context.Context, userID string, in profile.EmploymentInput) error
	UpsertBudget(ctx context.Context, userID string, in budget.BudgetInput) error
	UpsertProfile(ctx context.Context, userID string, in profile.ProfileInput) error
}

type Service struct {
	store Store
	log   *logrus.Logger
}

func NewService(store Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Export snapshots everything the user owns into a version-1 envelope.
func (s *Service) Export(ctx context.Context, userID string) (Envelope, error) {
	env := Envelope{
		Version:    EnvelopeVersion,
		ExportedAt: time.Now().UTC(),
		UserID:     userID,
	}

	var err error
	if env.SalaryRecords, err = s.store.ListRecords(ctx, userID); err != nil {
		return Envelope{}, err
	}
	if env.OrganizationTemplates, err = s.store.ListTemplates(ctx, userID); err != nil {
		return Envelope{}, err
	}
	if env.EmploymentHistory, err = s.store.ListEmployment(ctx, userID); err != nil {
		return Envelope{}, err
	}
	if env.BudgetHistory, err = s.store.ListBudgets(ctx, userID); err != nil {
		return Envelope{}, err
	}
	if env.Profile, err = s.store.GetProfile(ctx, userID); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Preview reports what a confirmed restore would wipe and recreate, with
// zero writes.
func (s *Service) Preview(ctx context.Context, userID string, env Envelope) (Preview, error) {
	var preview Preview
	var err error
	if preview.ToWipe.SalaryRecords, err = s.store.CountRecords(ctx, userID); err != nil {
		return Preview{}, err
	}
	if preview.ToWipe.OrganizationTemplates, err = s.store.CountTemplates(ctx, userID); err != nil {
		return Preview{}, err
	}
	if preview.ToWipe.EmploymentHistory, err = s.store.CountEmployment(ctx, userID); err != nil {
		return Preview{}, err
	}
	if preview.ToWipe.Budgets, err = s.store.CountBudgets(ctx, userID); err != nil {
		return Preview{}, err
	}

	preview.ToRestore = EntityCounts{
		SalaryRecords:         len(env.SalaryRecords),
		OrganizationTemplates: len(env.OrganizationTemplates),
		EmploymentHistory:     len(env.EmploymentHistory),
		Budgets:               len(env.BudgetHistory),
	}
	return preview, nil
}

// Restore wipes the user's data and recreates it from the envelope, in
// sequence: templates, salary records with line items, employment history,
// budgets, profile. There is no transaction wrapper; a mid-sequence failure
// leaves partial state, reported with the error.
func (s *Service) Restore(ctx context.Context, userID string, env Envelope) (RestoreSummary, error) {
	var summary RestoreSummary
	var err error

	if summary.Wiped.SalaryRecords, err = s.store.WipeRecords(ctx, userID); err != nil {
		return summary, err
	}
	if summary.Wiped.OrganizationTemplates, err = s.store.WipeTemplates(ctx, userID); err != nil {
		return summary, err
	}
	if summary.Wiped.Budgets, err = s.store.WipeBudgets(ctx, userID); err != nil {
		return summary, err
	}
	if summary.Wiped.EmploymentHistory, err = s.store.WipeEmployment(ctx, userID); err != nil {
		return summary, err
	}
	s.log.WithFields(logrus.Fields{
		"userId":  userID,
		"records": summary.Wiped.SalaryRecords,
	}).Info("backup restore wiped account data")

	for _, tpl := range env.OrganizationTemplates {
		if err := s.store.ReplaceTemplate(ctx, userID, tpl.Name, tpl.EarningCategories, tpl.DeductionCategories); err != nil {
			return summary, err
		}
		summary.TemplatesRestored++
	}

	for _, rec := range env.SalaryRecords {
		recordID, err := s.store.UpsertRecord(ctx, userID, restoreInput(rec))
		if err != nil {
			return summary, err
		}
		if err := s.store.ReplaceLineItems(ctx, recordID, rec.Earnings, rec.Deductions); err != nil {
			return summary, err
		}
		summary.RecordsRestored++
	}

	for _, emp := range env.EmploymentHistory {
		if err := s.store.CreateEmployment(ctx, userID, profile.EmploymentInput{
			Organization: emp.Organization,
			Designation:  emp.Designation,
			StartMonth:   emp.StartMonth,
			StartYear:    emp.StartYear,
			EndMonth:     emp.EndMonth,
			EndYear:      emp.EndYear,
			IsCurrent:    emp.IsCurrent,
		}); err != nil {
			return summary, err
		}
		summary.EmploymentRestored++
	}

	for _, b := range env.BudgetHistory {
		if err := s.store.UpsertBudget(ctx, userID, budget.BudgetInput{
			Month:         b.Month,
			Year:          b.Year,
			PlannedAmount: b.PlannedAmount,
			Notes:         b.Notes,
		}); err != nil {
			return summary, err
		}
		summary.BudgetsRestored++
	}

	if env.Profile != nil {
		if err := s.store.UpsertProfile(ctx, userID, profile.ProfileInput{
			FullName: env.Profile.FullName,
			Email:    env.Profile.Email,
			Currency: env.Profile.Currency,
		}); err != nil {
			return summary, err
		}
		summary.ProfileRestored = true
	}
	return summary, nil
}

// WipeAccount deletes everything the user owns, profile included. Audit
// events are kept so that the wipe itself stays on the trail.
func (s *Service) WipeAccount(ctx context.Context, userID string) (EntityCounts, error) {
	var wiped EntityCounts
	var err error
	if wiped.SalaryRecords, err = s.store.WipeRecords(ctx, userID); err != nil {
		return wiped, err
	}
	if wiped.OrganizationTemplates, err = s.store.WipeTemplates(ctx, userID); err != nil {
		return wiped, err
	}
	if wiped.Budgets, err = s.store.WipeBudgets(ctx, userID); err != nil {
		return wiped, err
	}
	if wiped.EmploymentHistory, err = s.store.WipeEmployment(ctx, userID); err != nil {
		return wiped, err
	}
	if err := s.store.DeleteProfile(ctx, userID); err != nil {
		return wiped, err
	}
	return wiped, nil
}

// restoreInput carries a backed-up record into a write, keeping the stored
// gross figure and only defaulting it when the backup predates the column.
func restoreInput(rec salary.Record) salary.RecordInput {
	in := salary.RecordInput{
		Organization:    rec.Organization,
		Month:           rec.Month,
		Year:            rec.Year,
		TotalEarnings:   rec.TotalEarnings,
		TotalDeductions: rec.TotalDeductions,
		NetSalary:       rec.NetSalary,
		GrossSalary:     rec.GrossSalary,
		Earnings:        rec.Earnings,
		Deductions:      rec.Deductions,
	}
	if in.GrossSalary.IsZero() {
		in.GrossSalary = in.TotalEarnings
	}
	return in
}
