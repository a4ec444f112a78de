package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	default:
		return false
	}
}

func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

// Label is the human-facing status string shown on the tracking page.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectPlanning:
		return "Planning"
	case ProjectInProgress:
		return "In Progress"
	case ProjectOnHold:
		return "On Hold"
	case ProjectCompleted:
		return "Completed"
	case ProjectCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Project is created once per approved request (RequestID set) or directly by
// staff (RequestID nil). TrackingCode is immutable once issued and reveals
// nothing about the project id or the client.
type Project struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	RequestID     *uuid.UUID      `json:"request_id,omitempty" db:"request_id"`
	ClientID      uuid.UUID       `json:"client_id" db:"client_id"`
	ProjectName   string          `json:"project_name" db:"project_name"`
	ProjectCode   string          `json:"project_code" db:"project_code"`
	TrackingCode  string          `json:"tracking_code" db:"tracking_code"`
	Category      ServiceCategory `json:"category" db:"category"`
	Status        ProjectStatus   `json:"status" db:"status"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty" db:"end_date"`
	ContractValue *float64        `json:"contract_value,omitempty" db:"contract_value"`
	Metadata      json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// SupplyMetadata is the optional shipment bag attached to supply projects and
// surfaced on the public tracking page.
type SupplyMetadata struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Vessel      string `json:"vessel,omitempty"`
}

// Milestone is an immutable structural copy of a template entry stamped onto
// a project at materialization time. Only IsCompleted/CompletedAt mutate.
type Milestone struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ProjectID     uuid.UUID  `json:"project_id" db:"project_id"`
	MilestoneName string     `json:"milestone_name" db:"milestone_name"`
	Description   *string    `json:"description,omitempty" db:"description"`
	SortOrder     int        `json:"sort_order" db:"sort_order"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	IsCompleted   bool       `json:"is_completed" db:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Progress is the derived completion state of a project's milestone set.
type Progress struct {
	Percent int        `json:"percent"`
	Current *Milestone `json:"current_milestone,omitempty"`
}

type ProjectDocument struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ProjectID       uuid.UUID `json:"project_id" db:"project_id"`
	Title           string    `json:"title" db:"title"`
	ObjectKey       string    `json:"object_key" db:"object_key"`
	ContentType     string    `json:"content_type" db:"content_type"`
	SizeBytes       int64     `json:"size_bytes" db:"size_bytes"`
	IsClientVisible bool      `json:"is_client_visible" db:"is_client_visible"`
	UploadedBy      uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ProjectActivity is an append-only log line on a project. Internal-only
// events (e.g. a non-client-visible document add) land here and nowhere else.
type ProjectActivity struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ProjectID       uuid.UUID  `json:"project_id" db:"project_id"`
	Title           string     `json:"title" db:"title"`
	Body            *string    `json:"body,omitempty" db:"body"`
	IsClientVisible bool       `json:"is_client_visible" db:"is_client_visible"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
