package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kofadam/asahi-x-family/internal/api/shared"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/engine"
	"github.com/kofadam/asahi-x-family/internal/service/auth"
	"github.com/kofadam/asahi-x-family/internal/service/progress"
	"github.com/kofadam/asahi-x-family/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Gate errors
	case errors.Is(err, engine.ErrLessonLocked):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, engine.ErrLessonNotFound),
		errors.Is(err, engine.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Store outages are retryable
	case errors.Is(err, progress.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidPreferences),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, engine.ErrInvalidAccuracy),
		errors.Is(err, engine.ErrInvalidPractice),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Profile ID not found or invalid"

	case errors.Is(err, engine.ErrLessonLocked):
		return "Lesson is locked"
	case errors.Is(err, engine.ErrLessonNotFound):
		return "Lesson not found"
	case errors.Is(err, engine.ErrItemNotFound):
		return "Review item not found"

	case errors.Is(err, store.ErrConflict):
		return "Progress was modified concurrently, please retry"
	case errors.Is(err, progress.ErrStoreUnavailable):
		return "Progress is temporarily unavailable"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"
	case errors.Is(err, domain.ErrInvalidPreferences):
		return "Invalid preferences"
	case errors.Is(err, engine.ErrInvalidAccuracy):
		return "Accuracy must be between 0 and 1"
	case errors.Is(err, engine.ErrInvalidPractice):
		return "Invalid practice session"
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes an error response for err. A non-empty message
// overrides the default safe message for the mapped status.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		// concurrent writers on one profile
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// HandleValidationError writes a 400 response for a request body that could
// not be decoded or validated.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	if err == nil {
		return "Validation error"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	errMsg := err.Error()

	if errors.Is(err, shared.ErrEmptyBody) {
		return "Request body is required"
	}

	// Example format: "Key: 'CompleteLessonRequest.Accuracy' Error:Field validation for 'Accuracy' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	if strings.Contains(errMsg, "json") || strings.Contains(errMsg, "unexpected") {
		return "Invalid request format"
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "invalid time format"
	case "timezone":
		return "unknown time zone"
	default:
		return "validation failed"
	}
}
