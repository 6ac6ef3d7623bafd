package budget

import (
	"context"
	"strings"

	"paytrack/internal/domain/salary"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID string, fiscalStart int) ([]Budget, error) {
	return s.store.List(ctx, userID, fiscalStart)
}

func (s *Service) Upsert(ctx context.Context, userID string, in BudgetInput) (Budget, error) {
	if !salary.MonthInBounds(in.Month) || !salary.YearInBounds(in.Year) {
		return Budget{}, salary.ErrPeriodOutOfRange
	}
	if !salary.AmountInBounds(in.PlannedAmount) {
		return Budget{}, salary.ErrAmountOutOfRange
	}
	in.Notes = strings.TrimSpace(in.Notes)
	return s.store.Upsert(ctx, userID, in)
}

func (s *Service) Delete(ctx context.Context, userID, budgetID string) error {
	return s.store.Delete(ctx, userID, budgetID)
}
