package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.ProjectDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDocument, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, clientVisibleOnly bool) ([]domain.ProjectDocument, error)
}

type documentRepository struct {
	db sqlx.ExtContext
}

func NewDocumentRepository(db sqlx.ExtContext) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.ProjectDocument) error {
	query := `
		INSERT INTO project_documents (id, project_id, title, object_key, content_type, size_bytes, is_client_visible, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		doc.ID, doc.ProjectID, doc.Title, doc.ObjectKey, doc.ContentType,
		doc.SizeBytes, doc.IsClientVisible, doc.UploadedBy,
	).Scan(&doc.CreatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDocument, error) {
	var doc domain.ProjectDocument
	err := sqlx.GetContext(ctx, r.db, &doc, `SELECT * FROM project_documents WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByProject(ctx context.Context, projectID uuid.UUID, clientVisibleOnly bool) ([]domain.ProjectDocument, error) {
	query := `
		SELECT * FROM project_documents
		WHERE project_id = $1 AND ($2 = false OR is_client_visible = true)
		ORDER BY created_at DESC`
	var docs []domain.ProjectDocument
	err := sqlx.SelectContext(ctx, r.db, &docs, query, projectID, clientVisibleOnly)
	return docs, err
}
