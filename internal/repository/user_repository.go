package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"irs-portal/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error)
	// GetPrimaryContact resolves the client user notifications for a client
	// company are addressed to.
	GetPrimaryContact(ctx context.Context, clientID uuid.UUID) (*domain.User, error)
}

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, role, client_id, is_primary_contact, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.ClientID, user.IsPrimaryContact, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := sqlx.GetContext(ctx, r.db, &user, `SELECT * FROM users WHERE id = $1 AND is_active = true`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := sqlx.GetContext(ctx, r.db, &user, `SELECT * FROM users WHERE email = $1 AND is_active = true`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error) {
	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	var users []domain.User
	query := `SELECT * FROM users WHERE role = ANY($1) AND is_active = true`
	err := sqlx.SelectContext(ctx, r.db, &users, query, pq.Array(roleStrings))
	return users, err
}

func (r *userRepository) GetPrimaryContact(ctx context.Context, clientID uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT * FROM users
		WHERE client_id = $1 AND is_active = true
		ORDER BY is_primary_contact DESC, created_at ASC
		LIMIT 1`
	err := sqlx.GetContext(ctx, r.db, &user, query, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
