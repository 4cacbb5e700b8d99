package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRating is returned when a rating is outside the four-value enum.
	// Operations receiving it must leave state untouched.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidItemState is returned when an item state is not recognized.
	ErrInvalidItemState = errors.New("invalid item state")

	// ErrInvalidDate is returned when a calendar date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPreferences is returned when learner preferences are malformed.
	ErrInvalidPreferences = errors.New("invalid preferences")

	// ErrInvalidRequirement is returned when an achievement requirement is malformed.
	ErrInvalidRequirement = errors.New("invalid achievement requirement")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError carries the name of the offending field alongside a
// sentinel error so callers can still match with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}
