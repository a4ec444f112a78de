package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type RequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error)
	List(ctx context.Context, status *domain.RequestStatus, clientID *uuid.UUID, params domain.PaginationParams) ([]domain.ServiceRequest, int64, error)
	CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus, reviewedBy *uuid.UUID, note *string) error
}

type requestRepository struct {
	db sqlx.ExtContext
}

func NewRequestRepository(db sqlx.ExtContext) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (id, client_id, requested_by, category, details, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		req.ID, req.ClientID, req.RequestedBy, req.Category, req.Details, req.Description, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	err := sqlx.GetContext(ctx, r.db, &req, `SELECT * FROM service_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByIDForUpdate row-locks the request for the duration of the enclosing
// transaction so two concurrent approvals serialize on the same row.
func (r *requestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	err := sqlx.GetContext(ctx, r.db, &req, `SELECT * FROM service_requests WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, status *domain.RequestStatus, clientID *uuid.UUID, params domain.PaginationParams) ([]domain.ServiceRequest, int64, error) {
	params.Validate()

	where := `WHERE ($1::text IS NULL OR status = $1) AND ($2::uuid IS NULL OR client_id = $2)`

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM service_requests `+where, status, clientID); err != nil {
		return nil, 0, err
	}

	var requests []domain.ServiceRequest
	query := `
		SELECT * FROM service_requests ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	err := sqlx.SelectContext(ctx, r.db, &requests, query, status, clientID, params.PageSize, params.Offset())
	return requests, total, err
}

func (r *requestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM service_requests WHERE status = $1`, status)
	return count, err
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus, reviewedBy *uuid.UUID, note *string) error {
	query := `
		UPDATE service_requests
		SET status = $2, reviewed_by = $3, reviewed_at = NOW(), review_note = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, reviewedBy, note)
	return err
}
