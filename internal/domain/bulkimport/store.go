package bulkimport

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"paytrack/internal/domain/orgs"
	"paytrack/internal/domain/salary"
)

// PGStore adapts the salary and template stores to the executor's surface.
type PGStore struct {
	salary *salary.Store
	orgs   *orgs.Store
}

var _ Store = (*PGStore)(nil)

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{salary: salary.NewStore(db), orgs: orgs.NewStore(db)}
}

func (s *PGStore) ReplaceTemplate(ctx context.Context, userID, organization string, earnings, deductions []string) error {
	_, err := s.orgs.ReplaceByName(ctx, userID, organization,
		orgs.NormalizeCategories(earnings), orgs.NormalizeCategories(deductions))
	return err
}

func (s *PGStore) UpsertRecord(ctx context.Context, userID string, in salary.RecordInput) (string, error) {
	return s.salary.Upsert(ctx, userID, in)
}

func (s *PGStore) ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []salary.LineItem) error {
	return s.salary.ReplaceLineItems(ctx, recordID, earnings, deductions)
}
