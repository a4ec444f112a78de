package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed out of s.
// The request machine is one-shot: pending is the only non-terminal state.
func (s RequestStatus) IsTerminal() bool {
	return s != RequestPending
}

// CanTransitionTo encodes the one-shot machine:
// pending -> approved | rejected | cancelled, nothing else.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s != RequestPending {
		return false
	}
	switch next {
	case RequestApproved, RequestRejected, RequestCancelled:
		return true
	default:
		return false
	}
}

// ServiceRequest is a client's typed-by-category submission. Details is the
// raw payload as stored; use DecodeRequestDetails to interpret it.
type ServiceRequest struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ClientID    uuid.UUID       `json:"client_id" db:"client_id"`
	RequestedBy uuid.UUID       `json:"requested_by" db:"requested_by"`
	Category    ServiceCategory `json:"category" db:"category"`
	Details     json.RawMessage `json:"details" db:"details"`
	Description *string         `json:"description,omitempty" db:"description"`
	Status      RequestStatus   `json:"status" db:"status"`
	ReviewedBy  *uuid.UUID      `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewNote  *string         `json:"review_note,omitempty" db:"review_note"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	Requester *User `json:"requester,omitempty" db:"-"`
}

type SubmitRequestInput struct {
	Category    ServiceCategory `json:"category"`
	Details     json.RawMessage `json:"details"`
	Description *string         `json:"description,omitempty"`
}

type ReviewRequestInput struct {
	Note *string `json:"note,omitempty"`
}

// RequestDetails is the category-tagged union of the five fixed payload
// shapes. The intake stores the raw payload; only the materializer and the
// display layer decode it.
type RequestDetails interface {
	Validate() error
}

type ManningDetails struct {
	Position       string   `json:"position"`
	Quantity       int      `json:"quantity"`
	Duration       string   `json:"duration"`
	Certifications []string `json:"certifications,omitempty"`
}

func (d *ManningDetails) Validate() error {
	if d.Position == "" {
		return NewValidationError("position", "required")
	}
	if d.Quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	return nil
}

type OffshoreDetails struct {
	ServiceName string `json:"service_name"`
	AssetType   string `json:"asset_type"`
	Location    string `json:"location"`
	StartDate   *Date  `json:"start_date,omitempty"`
}

func (d *OffshoreDetails) Validate() error {
	if d.ServiceName == "" {
		return NewValidationError("service_name", "required")
	}
	return nil
}

type HSEDetails struct {
	HSEType   string `json:"hse_type"`
	Scope     string `json:"scope"`
	StartDate *Date  `json:"start_date,omitempty"`
	EndDate   *Date  `json:"end_date,omitempty"`
}

func (d *HSEDetails) Validate() error {
	if d.HSEType == "" {
		return NewValidationError("hse_type", "required")
	}
	return nil
}

type SupplyDetails struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
	Priority string `json:"priority,omitempty"`
}

func (d *SupplyDetails) Validate() error {
	if d.ItemName == "" {
		return NewValidationError("item_name", "required")
	}
	if d.Quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	return nil
}

type WasteDetails struct {
	WasteType string `json:"waste_type"`
	Volume    string `json:"volume"`
	Location  string `json:"location"`
	Handling  string `json:"handling,omitempty"`
}

func (d *WasteDetails) Validate() error {
	if d.WasteType == "" {
		return NewValidationError("waste_type", "required")
	}
	return nil
}

// DecodeRequestDetails parses raw into the shape selected by category and
// validates its required fields.
func DecodeRequestDetails(category ServiceCategory, raw json.RawMessage) (RequestDetails, error) {
	var details RequestDetails
	switch category {
	case CategoryManning:
		details = &ManningDetails{}
	case CategoryOffshore:
		details = &OffshoreDetails{}
	case CategoryHSE:
		details = &HSEDetails{}
	case CategorySupply:
		details = &SupplyDetails{}
	case CategoryWaste:
		details = &WasteDetails{}
	default:
		return nil, NewValidationError("category", "unknown service category")
	}

	if err := json.Unmarshal(raw, details); err != nil {
		return nil, NewValidationError("details", "malformed payload: "+err.Error())
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	return details, nil
}
