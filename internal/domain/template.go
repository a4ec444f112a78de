package domain

import (
	"time"

	"github.com/google/uuid"
)

// MilestoneTemplate is one ordered entry of a category's milestone checklist.
// Edits affect future materializations only; existing projects keep their own
// milestone copies.
type MilestoneTemplate struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Category    ServiceCategory `json:"category" db:"category"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	SortOrder   int             `json:"sort_order" db:"sort_order"`
	DaysOffset  int             `json:"days_offset" db:"days_offset"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type TemplateMilestoneInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	DaysOffset  int     `json:"days_offset"`
}

// UpdateTemplateInput replaces a category's checklist wholesale. Positions in
// the slice are authoritative: sort_order is renumbered 1..N on save.
type UpdateTemplateInput struct {
	Milestones []TemplateMilestoneInput `json:"milestones"`
}
