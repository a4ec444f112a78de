package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.ProjectActivity) error
	ListByProject(ctx context.Context, projectID uuid.UUID, clientVisibleOnly bool) ([]domain.ProjectActivity, error)
}

type activityRepository struct {
	db sqlx.ExtContext
}

func NewActivityRepository(db sqlx.ExtContext) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.ProjectActivity) error {
	query := `
		INSERT INTO project_activities (id, project_id, title, body, is_client_visible, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		activity.ID, activity.ProjectID, activity.Title, activity.Body,
		activity.IsClientVisible, activity.CreatedBy,
	).Scan(&activity.CreatedAt)
}

func (r *activityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, clientVisibleOnly bool) ([]domain.ProjectActivity, error) {
	query := `
		SELECT * FROM project_activities
		WHERE project_id = $1 AND ($2 = false OR is_client_visible = true)
		ORDER BY created_at DESC`
	var activities []domain.ProjectActivity
	err := sqlx.SelectContext(ctx, r.db, &activities, query, projectID, clientVisibleOnly)
	return activities, err
}
