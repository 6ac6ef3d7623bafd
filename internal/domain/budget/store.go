package budget

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBudgetNotFound = errors.New("budget not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, userID string, fiscalStart int) ([]Budget, error) {
	query := `
    SELECT id, month, year, planned_amount, COALESCE(notes, ''), created_at, updated_at
    FROM budgets
    WHERE user_id = $1
    ORDER BY year, month
  `
	args := []any{userID}
	if fiscalStart != 0 {
		query = `
    SELECT id, month, year, planned_amount, COALESCE(notes, ''), created_at, updated_at
    FROM budgets
    WHERE user_id = $1 AND (CASE WHEN month >= 4 THEN year ELSE year - 1 END) = $2
    ORDER BY year, month
  `
		args = append(args, fiscalStart)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.Month, &b.Year, &b.PlannedAmount, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, userID string, in BudgetInput) (Budget, error) {
	var b Budget
	err := s.DB.QueryRow(ctx, `
    INSERT INTO budgets (user_id, month, year, planned_amount, notes)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (user_id, month, year) DO UPDATE SET
      planned_amount = EXCLUDED.planned_amount,
      notes = EXCLUDED.notes,
      updated_at = now()
    RETURNING id, month, year, planned_amount, COALESCE(notes, ''), created_at, updated_at
  `, userID, in.Month, in.Year, in.PlannedAmount, in.Notes).
		Scan(&b.ID, &b.Month, &b.Year, &b.PlannedAmount, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) Delete(ctx context.Context, userID, budgetID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM budgets
    WHERE user_id = $1 AND id = $2
  `, userID, budgetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM budgets WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM budgets
    WHERE user_id = $1
  `, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
