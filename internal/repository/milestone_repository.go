package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type MilestoneRepository interface {
	BulkCreate(ctx context.Context, milestones []domain.Milestone) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
}

type milestoneRepository struct {
	db sqlx.ExtContext
}

func NewMilestoneRepository(db sqlx.ExtContext) MilestoneRepository {
	return &milestoneRepository{db: db}
}

// BulkCreate stamps a full milestone set in one pass. It runs inside the
// materializer's transaction: either every row lands or none do.
func (r *milestoneRepository) BulkCreate(ctx context.Context, milestones []domain.Milestone) error {
	query := `
		INSERT INTO milestones (id, project_id, milestone_name, description, sort_order, due_date, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	for i := range milestones {
		err := r.db.QueryRowxContext(ctx, query,
			milestones[i].ID, milestones[i].ProjectID, milestones[i].MilestoneName,
			milestones[i].Description, milestones[i].SortOrder, milestones[i].DueDate,
			milestones[i].IsCompleted,
		).Scan(&milestones[i].CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *milestoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error) {
	var m domain.Milestone
	err := sqlx.GetContext(ctx, r.db, &m, `SELECT * FROM milestones WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *milestoneRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	query := `SELECT * FROM milestones WHERE project_id = $1 ORDER BY sort_order ASC`
	var milestones []domain.Milestone
	err := sqlx.SelectContext(ctx, r.db, &milestones, query, projectID)
	return milestones, err
}

func (r *milestoneRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	query := `
		UPDATE milestones
		SET is_completed = $2,
		    completed_at = CASE WHEN $2 THEN NOW() ELSE NULL END
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, completed)
	return err
}
