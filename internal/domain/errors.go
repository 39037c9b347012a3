package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrCooldownActive = errors.New("cooldown active")
	ErrPersistence    = errors.New("persistence error")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// CooldownError is returned when an offering is made before the cooldown
// has elapsed. RemainingHours is rounded up for user messaging.
type CooldownError struct {
	Remaining      time.Duration
	RemainingHours int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: %d hours remaining", e.RemainingHours)
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// NewCooldownError builds a CooldownError for the given remaining duration.
func NewCooldownError(remaining time.Duration) *CooldownError {
	return &CooldownError{
		Remaining:      remaining,
		RemainingHours: int(math.Ceil(remaining.Hours())),
	}
}
