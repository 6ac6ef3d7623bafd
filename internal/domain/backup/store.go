package backup

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"paytrack/internal/domain/budget"
	"paytrack/internal/domain/orgs"
	"paytrack/internal/domain/profile"
	"paytrack/internal/domain/salary"
)

// PGStore composes the domain stores into the backup surface.
type PGStore struct {
	salary   *salary.Store
	orgs     *orgs.Store
	profiles *profile.Store
	budgets  *budget.Store
}

var _ Store = (*PGStore)(nil)

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{
		salary:   salary.NewStore(db),
		orgs:     orgs.NewStore(db),
		profiles: profile.NewStore(db),
		budgets:  budget.NewStore(db),
	}
}

func (s *PGStore) ListRecords(ctx context.Context, userID string) ([]salary.Record, error) {
	return s.salary.ListAllWithItems(ctx, userID, "")
}

func (s *PGStore) ListTemplates(ctx context.Context, userID string) ([]orgs.Template, error) {
	return s.orgs.List(ctx, userID)
}

func (s *PGStore) ListEmployment(ctx context.Context, userID string) ([]profile.Employment, error) {
	return s.profiles.ListEmployment(ctx, userID)
}

func (s *PGStore) ListBudgets(ctx context.Context, userID string) ([]budget.Budget, error) {
	return s.budgets.List(ctx, userID, 0)
}

func (s *PGStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) CountRecords(ctx context.Context, userID string) (int, error) {
	return s.salary.Count(ctx, userID, salary.Filter{})
}

func (s *PGStore) CountTemplates(ctx context.Context, userID string) (int, error) {
	return s.orgs.Count(ctx, userID)
}

func (s *PGStore) CountEmployment(ctx context.Context, userID string) (int, error) {
	return s.profiles.CountEmployment(ctx, userID)
}

func (s *PGStore) CountBudgets(ctx context.Context, userID string) (int, error) {
	return s.budgets.Count(ctx, userID)
}

func (s *PGStore) WipeRecords(ctx context.Context, userID string) (int, error) {
	return s.salary.DeleteAllForUser(ctx, userID)
}

func (s *PGStore) WipeTemplates(ctx context.Context, userID string) (int, error) {
	return s.orgs.DeleteAllForUser(ctx, userID)
}

func (s *PGStore) WipeEmployment(ctx context.Context, userID string) (int, error) {
	return s.profiles.DeleteAllEmployment(ctx, userID)
}

func (s *PGStore) WipeBudgets(ctx context.Context, userID string) (int, error) {
	return s.budgets.DeleteAllForUser(ctx, userID)
}

func (s *PGStore) DeleteProfile(ctx context.Context, userID string) error {
	return s.profiles.DeleteProfile(ctx, userID)
}

func (s *PGStore) ReplaceTemplate(ctx context.Context, userID, name string, earnings, deductions []string) error {
	_, err := s.orgs.ReplaceByName(ctx, userID, name,
		orgs.NormalizeCategories(earnings), orgs.NormalizeCategories(deductions))
	return err
}

func (s *PGStore) UpsertRecord(ctx context.Context, userID string, in salary.RecordInput) (string, error) {
	return s.salary.Upsert(ctx, userID, in)
}

func (s *PGStore) ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []salary.LineItem) error {
	return s.salary.ReplaceLineItems(ctx, recordID, earnings, deductions)
}

func (s *PGStore) CreateEmployment(ctx context.Context, userID string, in profile.EmploymentInput) error {
	_, err := s.profiles.CreateEmployment(ctx, userID, in)
	return err
}

func (s *PGStore) UpsertBudget(ctx context.Context, userID string, in budget.BudgetInput) error {
	_, err := s.budgets.Upsert(ctx, userID, in)
	return err
}

func (s *PGStore) UpsertProfile(ctx context.Context, userID string, in profile.ProfileInput) error {
	_, err := s.profiles.UpsertProfile(ctx, userID, in)
	return err
}
