package errors

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

type ErrorInfo struct {
	category  string
	sanitized string
}

// domain errors returned by services and mapped to responses by Respond
var (
	// no usable identity could be resolved, whatever the cause
	ErrUnauthenticated = errors.New("not authenticated")

	// entity absent or owned by someone else
	ErrNotFound = errors.New("not found")

	// a concurrent update won the race; re-read and retry
	ErrConflict = errors.New("concurrent update conflict")

	// email/password pair rejected at login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// malformed input to a mutation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

// creates a validation error for a single field
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// a status change the lifecycle table does not permit
type TransitionError struct {
	From string
	To   string

	// statuses reachable from From
	Allowed []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from '%s' to '%s'", e.From, e.To)
}

// reports whether err is (or wraps) a validation error
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// reports whether err is (or wraps) a transition error
func IsTransition(err error) bool {
	var t *TransitionError
	return errors.As(err, &t)
}
