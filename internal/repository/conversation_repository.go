package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, params domain.PaginationParams) ([]domain.Conversation, int64, error)
	ListStaffParticipants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error)
	AddParticipant(ctx context.Context, conversationID, userID uuid.UUID) error
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error)
}

type conversationRepository struct {
	db sqlx.ExtContext
}

func NewConversationRepository(db sqlx.ExtContext) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, project_id, client_id, owner_user_id, subject)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		conv.ID, conv.ProjectID, conv.ClientID, conv.OwnerUserID, conv.Subject,
	).Scan(&conv.CreatedAt)
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := sqlx.GetContext(ctx, r.db, &conv, `SELECT * FROM conversations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListByClient(ctx context.Context, clientID uuid.UUID, params domain.PaginationParams) ([]domain.Conversation, int64, error) {
	params.Validate()

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM conversations WHERE client_id = $1`, clientID); err != nil {
		return nil, 0, err
	}

	var convs []domain.Conversation
	query := `
		SELECT * FROM conversations
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := sqlx.SelectContext(ctx, r.db, &convs, query, clientID, params.PageSize, params.Offset())
	return convs, total, err
}

func (r *conversationRepository) ListStaffParticipants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT cp.user_id FROM conversation_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.conversation_id = $1 AND u.role IN ('staff', 'admin')`
	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, r.db, &ids, query, conversationID)
	return ids, err
}

func (r *conversationRepository) AddParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	query := `
		INSERT INTO conversation_participants (conversation_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (conversation_id, user_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, conversationID, userID)
	return err
}

func (r *conversationRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, sender_type, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.SenderType, msg.Body,
	).Scan(&msg.CreatedAt)
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	params.Validate()

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM messages WHERE conversation_id = $1`, conversationID); err != nil {
		return nil, 0, err
	}

	var msgs []domain.Message
	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
	err := sqlx.SelectContext(ctx, r.db, &msgs, query, conversationID, params.PageSize, params.Offset())
	return msgs, total, err
}
