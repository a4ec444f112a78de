package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Link      *string          `json:"link,omitempty" db:"link"`
	SourceKey string           `json:"-" db:"source_key"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifApplication    NotificationType = "application"
	NotifMessage        NotificationType = "message"
	NotifServiceRequest NotificationType = "service_request"
	NotifDocument       NotificationType = "document"
	NotifMilestone      NotificationType = "milestone"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifApplication, NotifMessage, NotifServiceRequest, NotifDocument, NotifMilestone:
		return true
	default:
		return false
	}
}

// UnreadCounts is the per-type badge map shown in portal navigation.
type UnreadCounts map[NotificationType]int64

// NotificationsChangedChannel is the redis pub/sub channel the fan-out
// publishes to after any notification write. The payload is advisory only:
// consumers re-query their own unread set instead of trusting it.
const NotificationsChangedChannel = "notifications:changed"
