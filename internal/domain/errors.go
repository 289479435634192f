// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidStatus is returned when a task status is not one of the
	// known values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a task priority is not one of the
	// known values.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidDueDate is returned when a due date string cannot be parsed.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError carries the field and reason for a validation failure.
// It wraps one of the sentinel errors above so callers can classify it
// with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// PasswordPolicyError lists every password requirement that was not met,
// not just the first one, so clients can show the full checklist.
type PasswordPolicyError struct {
	Requirements []string
}

// Error implements the error interface.
func (e *PasswordPolicyError) Error() string {
	return "password must contain " + strings.Join(e.Requirements, ", ")
}

// Unwrap makes PasswordPolicyError match ErrValidation via errors.Is.
func (e *PasswordPolicyError) Unwrap() error {
	return ErrValidation
}
