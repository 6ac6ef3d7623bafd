package orgs

import (
	"context"
	"errors"
	"fmt"

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

func (s *Store) List(ctx context.Context, userID string) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, created_at, updated_at
    FROM organization_templates
    WHERE user_id = $1
    ORDER BY name
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	index := make(map[string]int)
	for rows.Next() {
		var tpl Template
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, err
		}
		index[tpl.ID] = len(templates)
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return templates, nil
	}

	for _, table := range []string{"template_earnings", "template_deductions"} {
		listRows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT l.template_id, l.category
    FROM %s l
    JOIN organization_templates t ON t.id = l.template_id
    WHERE t.user_id = $1
    ORDER BY l.position
  `, table), userID)
		if err != nil {
			return nil, err
		}
		for listRows.Next() {
			var templateID, category string
			if err := listRows.Scan(&templateID, &category); err != nil {
				listRows.Close()
				return nil, err
			}
			pos, ok := index[templateID]
			if !ok {
				continue
			}
			if table == "template_earnings" {
				templates[pos].EarningCategories = append(templates[pos].EarningCategories, category)
			} else {
				templates[pos].DeductionCategories = append(templates[pos].DeductionCategories, category)
			}
		}
		listRows.Close()
		if err := listRows.Err(); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (s *Store) Get(ctx context.Context, userID, templateID string) (Template, error) {
	return s.getOne(ctx, `
    SELECT id, name, created_at, updated_at
    FROM organization_templates
    WHERE user_id = $1 AND id = $2
  `, userID, templateID)
}

func (s *Store) GetByName(ctx context.Context, userID, name string) (Template, error) {
	return s.getOne(ctx, `
    SELECT id, name, created_at, updated_at
    FROM organization_templates
    WHERE user_id = $1 AND name = $2
  `, userID, name)
}

func (s *Store) getOne(ctx context.Context, query, userID, key string) (Template, error) {
	var tpl Template
	err := s.DB.QueryRow(ctx, query, userID, key).Scan(&tpl.ID, &tpl.Name, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	}
	if err != nil {
		return Template{}, err
	}

	tpl.EarningCategories, err = s.listCategories(ctx, "template_earnings", tpl.ID)
	if err != nil {
		return Template{}, err
	}
	tpl.DeductionCategories, err = s.listCategories(ctx, "template_deductions", tpl.ID)
	if err != nil {
		return Template{}, err
	}
	return tpl, nil
}

func (s *Store) listCategories(ctx context.Context, table, templateID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT category
    FROM %s
    WHERE template_id = $1
    ORDER BY position
  `, table), templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *Store) Create(ctx context.Context, userID string, in TemplateInput) (Template, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Template{}, err
	}
	defer tx.Rollback(ctx)

	var tpl Template
	err = tx.QueryRow(ctx, `
    INSERT INTO organization_templates (user_id, name)
    VALUES ($1,$2)
    RETURNING id, name, created_at, updated_at
  `, userID, in.Name).Scan(&tpl.ID, &tpl.Name, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Template{}, ErrDuplicateTemplate
		}
		return Template{}, err
	}

	if err := replaceCategories(ctx, tx, tpl.ID, in.EarningCategories, in.DeductionCategories); err != nil {
		return Template{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Template{}, err
	}

	tpl.EarningCategories = in.EarningCategories
	tpl.DeductionCategories = in.DeductionCategories
	return tpl, nil
}

func (s *Store) Update(ctx context.Context, userID, templateID string, in TemplateInput) (Template, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Template{}, err
	}
	defer tx.Rollback(ctx)

	var tpl Template
	err = tx.QueryRow(ctx, `
    UPDATE organization_templates
    SET name = $3, updated_at = now()
    WHERE user_id = $1 AND id = $2
    RETURNING id, name, created_at, updated_at
  `, userID, templateID, in.Name).Scan(&tpl.ID, &tpl.Name, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return Template{}, ErrDuplicateTemplate
		}
		return Template{}, err
	}

	if err := replaceCategories(ctx, tx, tpl.ID, in.EarningCategories, in.DeductionCategories); err != nil {
		return Template{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Template{}, err
	}

	tpl.EarningCategories = in.EarningCategories
	tpl.DeductionCategories = in.DeductionCategories
	return tpl, nil
}

func (s *Store) Delete(ctx context.Context, userID, templateID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM organization_templates
    WHERE user_id = $1 AND id = $2
  `, userID, templateID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// ReplaceByName finds or creates the template for an organization and swaps
// both category lists wholesale. Bulk import and restore go through here.
func (s *Store) ReplaceByName(ctx context.Context, userID, name string, earnings, deductions []string) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var templateID string
	err = tx.QueryRow(ctx, `
    SELECT id
    FROM organization_templates
    WHERE user_id = $1 AND name = $2
  `, userID, name).Scan(&templateID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
    INSERT INTO organization_templates (user_id, name)
    VALUES ($1,$2)
    RETURNING id
  `, userID, name).Scan(&templateID)
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE organization_templates
    SET updated_at = now()
    WHERE id = $1
  `, templateID); err != nil {
		return "", err
	}
	if err := replaceCategories(ctx, tx, templateID, earnings, deductions); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return templateID, nil
}

func replaceCategories(ctx context.Context, tx pgx.Tx, templateID string, earnings, deductions []string) error {
	for _, table := range []string{"template_earnings", "template_deductions"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
      DELETE FROM %s
      WHERE template_id = $1
    `, table), templateID); err != nil {
			return err
		}
	}
	if err := insertCategories(ctx, tx, "template_earnings", templateID, earnings); err != nil {
		return err
	}
	return insertCategories(ctx, tx, "template_deductions", templateID, deductions)
}

func insertCategories(ctx context.Context, tx pgx.Tx, table, templateID string, categories []string) error {
	for position, category := range categories {
		if category == "" {
			continue
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
      INSERT INTO %s (template_id, category, position)
      VALUES ($1,$2,$3)
    `, table), templateID, category, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(*)
    FROM organization_templates
    WHERE user_id = $1
  `, userID).Scan(&count)
	return count, err
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM organization_templates
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
