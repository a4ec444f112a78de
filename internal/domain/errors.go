package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrTrackingNotFound  = errors.New("tracking code not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// MaterializationError wraps any failure inside the approve+materialize
// transaction. The request status change rolls back together with it.
type MaterializationError struct {
	RequestID string
	Err       error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materialization failed for request %s: %v", e.RequestID, e.Err)
}

func (e *MaterializationError) Unwrap() error {
	return e.Err
}
