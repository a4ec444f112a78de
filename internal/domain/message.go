package domain

import (
	"time"

	"github.com/google/uuid"
)

type SenderType string

const (
	SenderStaff  SenderType = "staff"
	SenderClient SenderType = "client"
)

// Conversation ties a client and a project (optional) to an owning staff
// member. Client-originated messages are routed to the owner plus any staff
// participants, never to zero staff.
type Conversation struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty" db:"project_id"`
	ClientID    uuid.UUID  `json:"client_id" db:"client_id"`
	OwnerUserID uuid.UUID  `json:"owner_user_id" db:"owner_user_id"`
	Subject     string     `json:"subject" db:"subject"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Message struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ConversationID uuid.UUID  `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id" db:"sender_id"`
	SenderType     SenderType `json:"sender_type" db:"sender_type"`
	Body           string     `json:"body" db:"body"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

type SendMessageInput struct {
	Body string `json:"body"`
}

type CreateConversationInput struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Subject   string     `json:"subject"`
}
