package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type TemplateRepository interface {
	ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.MilestoneTemplate, error)
	ReplaceForCategory(ctx context.Context, category domain.ServiceCategory, entries []domain.MilestoneTemplate) error
	CountAll(ctx context.Context) (int64, error)
}

type templateRepository struct {
	db sqlx.ExtContext
}

func NewTemplateRepository(db sqlx.ExtContext) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.MilestoneTemplate, error) {
	query := `SELECT * FROM milestone_templates WHERE category = $1 ORDER BY sort_order ASC`
	var templates []domain.MilestoneTemplate
	err := sqlx.SelectContext(ctx, r.db, &templates, query, category)
	return templates, err
}

// ReplaceForCategory swaps a category's checklist wholesale. Callers run it
// inside WithinTransaction so a failed insert cannot leave the category empty.
func (r *templateRepository) ReplaceForCategory(ctx context.Context, category domain.ServiceCategory, entries []domain.MilestoneTemplate) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM milestone_templates WHERE category = $1`, category); err != nil {
		return err
	}

	query := `
		INSERT INTO milestone_templates (id, category, name, description, sort_order, days_offset)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	for i := range entries {
		err := r.db.QueryRowxContext(ctx, query,
			entries[i].ID, entries[i].Category, entries[i].Name, entries[i].Description,
			entries[i].SortOrder, entries[i].DaysOffset,
		).Scan(&entries[i].CreatedAt, &entries[i].UpdatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *templateRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM milestone_templates`)
	return count, err
}
