package salary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `id, organization, month, year, total_earnings, total_deductions, net_salary, gross_salary, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Organization, &rec.Month, &rec.Year,
		&rec.TotalEarnings, &rec.TotalDeductions, &rec.NetSalary, &rec.GrossSalary,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	rec.FinancialYear = FinancialYearLabel(rec.Month, rec.Year)
	return rec, nil
}

func buildListQuery(userID string, filter Filter) (string, []any) {
	var conditions []string
	args := []any{userID}
	conditions = append(conditions, "user_id = $1")

	if filter.Organization != "" {
		args = append(args, filter.Organization)
		conditions = append(conditions, fmt.Sprintf("organization = $%d", len(args)))
	}
	if filter.FiscalStart != 0 {
		args = append(args, filter.FiscalStart)
		conditions = append(conditions, fmt.Sprintf("(CASE WHEN month >= 4 THEN year ELSE year - 1 END) = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		conditions = append(conditions, fmt.Sprintf("month = $%d", len(args)))
	}
	return strings.Join(conditions, " AND "), args
}

func (s *Store) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]Record, error) {
	where, args := buildListQuery(userID, filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
    SELECT %s
    FROM salary_records
    WHERE %s
    ORDER BY year DESC, month DESC
    LIMIT $%d OFFSET $%d
  `, recordColumns, where, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Count(ctx context.Context, userID string, filter Filter) (int, error) {
	where, args := buildListQuery(userID, filter)
	var count int
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT COUNT(*)
    FROM salary_records
    WHERE %s
  `, where), args...).Scan(&count)
	return count, err
}

func (s *Store) Get(ctx context.Context, userID, recordID string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT %s
    FROM salary_records
    WHERE user_id = $1 AND id = $2
  `, recordColumns), userID, recordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}

	rec.Earnings, err = s.listItems(ctx, "earnings", rec.ID)
	if err != nil {
		return Record{}, err
	}
	rec.Deductions, err = s.listItems(ctx, "deductions", rec.ID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) listItems(ctx context.Context, table, recordID string) ([]LineItem, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT id, category, amount, COALESCE(description, '')
    FROM %s
    WHERE salary_record_id = $1
    ORDER BY created_at, id
  `, table), recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.Category, &item.Amount, &item.Description); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) Create(ctx context.Context, userID string, in RecordInput) (Record, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO salary_records
      (user_id, organization, month, year, total_earnings, total_deductions, net_salary, gross_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING %s
  `, recordColumns), userID, in.Organization, in.Month, in.Year,
		in.TotalEarnings, in.TotalDeductions, in.NetSalary, in.GrossSalary))
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, ErrDuplicateRecord
		}
		return Record{}, err
	}

	if err := insertItems(ctx, tx, "earnings", rec.ID, in.Earnings); err != nil {
		return Record{}, err
	}
	if err := insertItems(ctx, tx, "deductions", rec.ID, in.Deductions); err != nil {
		return Record{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}

	rec.Earnings = in.Earnings
	rec.Deductions = in.Deductions
	return rec, nil
}

func (s *Store) Update(ctx context.Context, userID, recordID string, in RecordInput) (Record, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, fmt.Sprintf(`
    UPDATE salary_records
    SET organization = $3, month = $4, year = $5, total_earnings = $6,
        total_deductions = $7, net_salary = $8, gross_salary = $9, updated_at = now()
    WHERE user_id = $1 AND id = $2
    RETURNING %s
  `, recordColumns), userID, recordID, in.Organization, in.Month, in.Year,
		in.TotalEarnings, in.TotalDeductions, in.NetSalary, in.GrossSalary))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, ErrDuplicateRecord
		}
		return Record{}, err
	}

	if err := replaceItems(ctx, tx, rec.ID, in.Earnings, in.Deductions); err != nil {
		return Record{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}

	rec.Earnings = in.Earnings
	rec.Deductions = in.Deductions
	return rec, nil
}

func (s *Store) Delete(ctx context.Context, userID, recordID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM salary_records
    WHERE user_id = $1 AND id = $2
  `, userID, recordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Upsert replaces the record keyed by (user_id, month, year), creating it when
// absent. Line items are untouched; callers follow up with ReplaceLineItems.
func (s *Store) Upsert(ctx context.Context, userID string, in RecordInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO salary_records
      (user_id, organization, month, year, total_earnings, total_deductions, net_salary, gross_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (user_id, month, year) DO UPDATE SET
      organization = EXCLUDED.organization,
      total_earnings = EXCLUDED.total_earnings,
      total_deductions = EXCLUDED.total_deductions,
      net_salary = EXCLUDED.net_salary,
      gross_salary = EXCLUDED.gross_salary,
      updated_at = now()
    RETURNING id
  `, userID, in.Organization, in.Month, in.Year,
		in.TotalEarnings, in.TotalDeductions, in.NetSalary, in.GrossSalary).Scan(&id)
	return id, err
}

func (s *Store) ReplaceLineItems(ctx context.Context, recordID string, earnings, deductions []LineItem) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := replaceItems(ctx, tx, recordID, earnings, deductions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceItems(ctx context.Context, tx pgx.Tx, recordID string, earnings, deductions []LineItem) error {
	for _, table := range []string{"earnings", "deductions"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
      DELETE FROM %s
      WHERE salary_record_id = $1
    `, table), recordID); err != nil {
			return err
		}
	}
	if err := insertItems(ctx, tx, "earnings", recordID, earnings); err != nil {
		return err
	}
	return insertItems(ctx, tx, "deductions", recordID, deductions)
}

func insertItems(ctx context.Context, tx pgx.Tx, table, recordID string, items []LineItem) error {
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
      INSERT INTO %s (salary_record_id, category, amount, description)
      VALUES ($1,$2,$3,$4)
    `, table), recordID, item.Category, item.Amount, item.Description); err != nil {
			return err
		}
	}
	return nil
}

// ListAllWithItems loads every record for the user, line items included,
// ordered chronologically. Used by the workbook export and backups.
func (s *Store) ListAllWithItems(ctx context.Context, userID, organization string) ([]Record, error) {
	query := fmt.Sprintf(`
    SELECT %s
    FROM salary_records
    WHERE user_id = $1
    ORDER BY year, month
  `, recordColumns)
	args := []any{userID}
	if organization != "" {
		query = fmt.Sprintf(`
    SELECT %s
    FROM salary_records
    WHERE user_id = $1 AND organization = $2
    ORDER BY year, month
  `, recordColumns)
		args = append(args, organization)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	index := make(map[string]int)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	for _, table := range []string{"earnings", "deductions"} {
		itemRows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT i.salary_record_id, i.id, i.category, i.amount, COALESCE(i.description, '')
    FROM %s i
    JOIN salary_records sr ON sr.id = i.salary_record_id
    WHERE sr.user_id = $1
    ORDER BY i.created_at, i.id
  `, table), userID)
		if err != nil {
			return nil, err
		}
		for itemRows.Next() {
			var recordID string
			var item LineItem
			if err := itemRows.Scan(&recordID, &item.ID, &item.Category, &item.Amount, &item.Description); err != nil {
				itemRows.Close()
				return nil, err
			}
			pos, ok := index[recordID]
			if !ok {
				continue
			}
			if table == "earnings" {
				records[pos].Earnings = append(records[pos].Earnings, item)
			} else {
				records[pos].Deductions = append(records[pos].Deductions, item)
			}
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM salary_records
    WHERE user_id = $1
  `, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
