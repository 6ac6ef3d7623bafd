package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmploymentNotFound = errors.New("employment entry not found")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := s.DB.QueryRow(ctx, `
    SELECT user_id, COALESCE(full_name, ''), COALESCE(email, ''), currency, created_at, updated_at
    FROM profiles
    WHERE user_id = $1
  `, userID).Scan(&p.UserID, &p.FullName, &p.Email, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

func (s *Store) UpsertProfile(ctx context.Context, userID string, in ProfileInput) (Profile, error) {
	var p Profile
	err := s.DB.QueryRow(ctx, `
    INSERT INTO profiles (user_id, full_name, email, currency)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (user_id) DO UPDATE SET
      full_name = EXCLUDED.full_name,
      email = EXCLUDED.email,
      currency = EXCLUDED.currency,
      updated_at = now()
    RETURNING user_id, COALESCE(full_name, ''), COALESCE(email, ''), currency, created_at, updated_at
  `, userID, in.FullName, in.Email, in.Currency).
		Scan(&p.UserID, &p.FullName, &p.Email, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM profiles
    WHERE user_id = $1
  `, userID)
	return err
}

func (s *Store) ListEmployment(ctx context.Context, userID string) ([]Employment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, organization, COALESCE(designation, ''), start_month, start_year,
           COALESCE(end_month, 0), COALESCE(end_year, 0), is_current, created_at
    FROM employment_history
    WHERE user_id = $1
    ORDER BY start_year DESC, start_month DESC
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Employment
	for rows.Next() {
		var e Employment
		if err := rows.Scan(&e.ID, &e.Organization, &e.Designation, &e.StartMonth, &e.StartYear,
			&e.EndMonth, &e.EndYear, &e.IsCurrent, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) CreateEmployment(ctx context.Context, userID string, in EmploymentInput) (Employment, error) {
	var e Employment
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employment_history
      (user_id, organization, designation, start_month, start_year, end_month, end_year, is_current)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, organization, COALESCE(designation, ''), start_month, start_year,
              COALESCE(end_month, 0), COALESCE(end_year, 0), is_current, created_at
  `, userID, in.Organization, nullIfEmpty(in.Designation), in.StartMonth, in.StartYear,
		nullIfZero(in.EndMonth), nullIfZero(in.EndYear), in.IsCurrent).
		Scan(&e.ID, &e.Organization, &e.Designation, &e.StartMonth, &e.StartYear,
			&e.EndMonth, &e.EndYear, &e.IsCurrent, &e.CreatedAt)
	return e, err
}

func (s *Store) UpdateEmployment(ctx context.Context, userID, entryID string, in EmploymentInput) (Employment, error) {
	var e Employment
	err := s.DB.QueryRow(ctx, `
    UPDATE employment_history
    SET organization = $3, designation = $4, start_month = $5, start_year = $6,
        end_month = $7, end_year = $8, is_current = $9
    WHERE user_id = $1 AND id = $2
    RETURNING id, organization, COALESCE(designation, ''), start_month, start_year,
              COALESCE(end_month, 0), COALESCE(end_year, 0), is_current, created_at
  `, userID, entryID, in.Organization, nullIfEmpty(in.Designation), in.StartMonth, in.StartYear,
		nullIfZero(in.EndMonth), nullIfZero(in.EndYear), in.IsCurrent).
		Scan(&e.ID, &e.Organization, &e.Designation, &e.StartMonth, &e.StartYear,
			&e.EndMonth, &e.EndYear, &e.IsCurrent, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employment{}, ErrEmploymentNotFound
	}
	return e, err
}

func (s *Store) DeleteEmployment(ctx context.Context, userID, entryID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM employment_history
    WHERE user_id = $1 AND id = $2
  `, userID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmploymentNotFound
	}
	return nil
}

func (s *Store) CountEmployment(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employment_history WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

func (s *Store) DeleteAllEmployment(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM employment_history
    WHERE user_id = $1
  `, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
