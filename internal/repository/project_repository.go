package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

// ErrTrackingCodeTaken reports a tracking code collision on insert. The
// insert uses ON CONFLICT so the enclosing transaction survives and the
// materializer can draw a fresh code.
var ErrTrackingCodeTaken = errors.New("tracking code already in use")

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	CountByStatus(ctx context.Context, status domain.ProjectStatus) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.Project, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context, clientID *uuid.UUID, status *domain.ProjectStatus, params domain.PaginationParams) ([]domain.Project, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error
	SetEndDate(ctx context.Context, id uuid.UUID, endDate *time.Time) error
}

type projectRepository struct {
	db sqlx.ExtContext
}

func NewProjectRepository(db sqlx.ExtContext) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, request_id, client_id, project_name, project_code, tracking_code,
			category, status, start_date, end_date, contract_value, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (tracking_code) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		project.ID, project.RequestID, project.ClientID, project.ProjectName, project.ProjectCode,
		project.TrackingCode, project.Category, project.Status, project.StartDate, project.EndDate,
		project.ContractValue, project.Metadata,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrTrackingCodeTaken
	}
	return err
}

func (r *projectRepository) CountByStatus(ctx context.Context, status domain.ProjectStatus) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM projects WHERE status = $1`, status)
	return count, err
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := sqlx.GetContext(ctx, r.db, &project, `SELECT * FROM projects WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := sqlx.GetContext(ctx, r.db, &project, `SELECT * FROM projects WHERE request_id = $1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Project, error) {
	var project domain.Project
	err := sqlx.GetContext(ctx, r.db, &project, `SELECT * FROM projects WHERE tracking_code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, clientID *uuid.UUID, status *domain.ProjectStatus, params domain.PaginationParams) ([]domain.Project, int64, error) {
	params.Validate()

	where := `WHERE ($1::uuid IS NULL OR client_id = $1) AND ($2::text IS NULL OR status = $2)`

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM projects `+where, clientID, status); err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	query := `
		SELECT * FROM projects ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	err := sqlx.SelectContext(ctx, r.db, &projects, query, clientID, status, params.PageSize, params.Offset())
	return projects, total, err
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error {
	query := `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *projectRepository) SetEndDate(ctx context.Context, id uuid.UUID, endDate *time.Time) error {
	query := `UPDATE projects SET end_date = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, endDate)
	return err
}
