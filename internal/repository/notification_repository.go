package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"irs-portal/internal/domain"
)

type NotificationRepository interface {
	// Create inserts keyed on source_key and reports whether a row actually
	// landed. A repeat of the same underlying event is silently suppressed.
	Create(ctx context.Context, notif *domain.Notification) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	MarkTypeAsRead(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnreadByType(ctx context.Context, userID uuid.UUID) (domain.UnreadCounts, error)
}

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, link, source_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source_key) DO NOTHING
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Type, notif.Title, notif.Message, notif.Link, notif.SourceKey,
	).Scan(&notif.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict on source_key: this event was already delivered.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	err := sqlx.GetContext(ctx, r.db, &notif, `SELECT * FROM notifications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := `WHERE user_id = $1 AND ($2 = false OR is_read = false)`

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM notifications `+where, userID, unreadOnly); err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	query := `
		SELECT * FROM notifications ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	err := sqlx.SelectContext(ctx, r.db, &notifications, query, userID, unreadOnly, params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	var notifications []domain.Notification
	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	err := sqlx.SelectContext(ctx, r.db, &notifications, query, userID, limit)
	return notifications, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE id = $1 AND user_id = $2 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE user_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// MarkTypeAsRead is the single bulk update behind "open a screen, clear its
// badge". Scoped to (recipient, type, unread) so concurrent arrivals of the
// same type are left untouched for the next re-fetch to count.
func (r *notificationRepository) MarkTypeAsRead(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType) (int64, error) {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE user_id = $1 AND type = $2 AND is_read = false`
	res, err := r.db.ExecContext(ctx, query, userID, notifType)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID)
	return count, err
}

func (r *notificationRepository) CountUnreadByType(ctx context.Context, userID uuid.UUID) (domain.UnreadCounts, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT type, COUNT(*) AS count
		FROM notifications
		WHERE user_id = $1 AND is_read = false
		GROUP BY type`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(domain.UnreadCounts)
	for rows.Next() {
		var (
			notifType domain.NotificationType
			count     int64
		)
		if err := rows.Scan(&notifType, &count); err != nil {
			return nil, err
		}
		counts[notifType] = count
	}
	return counts, rows.Err()
}
