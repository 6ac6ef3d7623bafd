package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"paytrack/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const fiscalStartExpr = "(CASE WHEN month >= 4 THEN year ELSE year - 1 END)"

func (s *Store) Overview(ctx context.Context, userID string) (Overview, error) {
	var o Overview
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COUNT(DISTINCT organization),
           COALESCE(SUM(total_earnings), 0), COALESCE(SUM(total_deductions), 0),
           COALESCE(SUM(net_salary), 0), COALESCE(AVG(net_salary), 0)
    FROM salary_records
    WHERE user_id = $1
  `, userID).Scan(&o.RecordCount, &o.OrganizationCount,
		&o.TotalEarnings, &o.TotalDeductions, &o.TotalNet, &o.AverageNet)
	if err != nil {
		return Overview{}, err
	}
	o.AverageNet = o.AverageNet.Round(2)
	if o.RecordCount == 0 {
		return o, nil
	}

	first, err := s.boundaryPeriod(ctx, userID, "ASC")
	if err != nil {
		return Overview{}, err
	}
	last, err := s.boundaryPeriod(ctx, userID, "DESC")
	if err != nil {
		return Overview{}, err
	}
	o.FirstPeriod, o.LastPeriod = first, last
	return o, nil
}

func (s *Store) boundaryPeriod(ctx context.Context, userID, direction string) (*Period, error) {
	var p Period
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT month, year
    FROM salary_records
    WHERE user_id = $1
    ORDER BY year %s, month %s
    LIMIT 1
  `, direction, direction), userID).Scan(&p.Month, &p.Year)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ByOrganization(ctx context.Context, userID string) ([]OrganizationSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT organization, COUNT(1),
           COALESCE(SUM(total_earnings), 0), COALESCE(SUM(total_deductions), 0),
           COALESCE(SUM(net_salary), 0),
           MIN(year * 100 + month), MAX(year * 100 + month)
    FROM salary_records
    WHERE user_id = $1
    GROUP BY organization
    ORDER BY organization
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []OrganizationSummary
	for rows.Next() {
		var sum OrganizationSummary
		var firstKey, lastKey int
		if err := rows.Scan(&sum.Organization, &sum.RecordCount,
			&sum.TotalEarnings, &sum.TotalDeductions, &sum.TotalNet, &firstKey, &lastKey); err != nil {
			return nil, err
		}
		sum.FirstPeriod = periodFromKey(firstKey)
		sum.LastPeriod = periodFromKey(lastKey)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// periodFromKey decodes the year*100+month ordering key used in aggregates.
func periodFromKey(key int) Period {
	return Period{Month: key % 100, Year: key / 100}
}

func (s *Store) ByFinancialYear(ctx context.Context, userID string) ([]FiscalYearSummary, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT %s AS fiscal_start, COUNT(1),
           COALESCE(SUM(total_earnings), 0), COALESCE(SUM(total_deductions), 0),
           COALESCE(SUM(net_salary), 0)
    FROM salary_records
    WHERE user_id = $1
    GROUP BY fiscal_start
    ORDER BY fiscal_start DESC
  `, fiscalStartExpr), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []FiscalYearSummary
	for rows.Next() {
		var sum FiscalYearSummary
		var fiscalStart int
		if err := rows.Scan(&fiscalStart, &sum.RecordCount,
			&sum.TotalEarnings, &sum.TotalDeductions, &sum.TotalNet); err != nil {
			return nil, err
		}
		sum.FinancialYear = fmt.Sprintf("FY %d-%d", fiscalStart, fiscalStart+1)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *Store) ByCategory(ctx context.Context, userID string, fiscalStart int, organization string) ([]CategorySummary, error) {
	query := `
    SELECT kind, category, COALESCE(SUM(amount), 0) AS total, COUNT(1)
    FROM (
      SELECT 'earning' AS kind, e.category, e.amount, sr.month, sr.year, sr.organization
      FROM earnings e
      JOIN salary_records sr ON sr.id = e.salary_record_id
      WHERE sr.user_id = $1
      UNION ALL
      SELECT 'deduction', d.category, d.amount, sr.month, sr.year, sr.organization
      FROM deductions d
      JOIN salary_records sr ON sr.id = d.salary_record_id
      WHERE sr.user_id = $1
    ) items
  `
	args := []any{userID}
	var conditions []string
	if fiscalStart != 0 {
		args = append(args, fiscalStart)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", fiscalStartExpr, len(args)))
	}
	if organization != "" {
		args = append(args, organization)
		conditions = append(conditions, fmt.Sprintf("organization = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY kind, category ORDER BY total DESC, category"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []CategorySummary
	for rows.Next() {
		var sum CategorySummary
		if err := rows.Scan(&sum.Kind, &sum.Category, &sum.Total, &sum.RecordCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Monthly returns the month-by-month series for one financial year. Budget
// rows without a matching salary record still appear, with zero totals.
func (s *Store) Monthly(ctx context.Context, userID string, fiscalStart int) ([]MonthlyPoint, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT COALESCE(sr.month, b.month), COALESCE(sr.year, b.year),
           COALESCE(sr.total_earnings, 0), COALESCE(sr.total_deductions, 0),
           COALESCE(sr.net_salary, 0), COALESCE(b.planned_amount, 0)
    FROM (
      SELECT month, year, total_earnings, total_deductions, net_salary
      FROM salary_records
      WHERE user_id = $1 AND %s = $2
    ) sr
    FULL JOIN (
      SELECT month, year, planned_amount
      FROM budgets
      WHERE user_id = $1 AND %s = $2
    ) b ON b.month = sr.month AND b.year = sr.year
    ORDER BY COALESCE(sr.year, b.year), COALESCE(sr.month, b.month)
  `, fiscalStartExpr, fiscalStartExpr), userID, fiscalStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []MonthlyPoint
	for rows.Next() {
		var p MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Year, &p.TotalEarnings, &p.TotalDeductions,
			&p.NetSalary, &p.PlannedAmount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
