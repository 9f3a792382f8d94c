package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codeberg.org/lumina/server/internal/logger"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.Respond() for anything returned by a service; it maps the
//     domain errors below to status codes and logs only unexpected failures
//   - Use errors.InternalError(), errors.BadRequest(), etc. directly for
//     transport-level problems (binding, path params)
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/repositories/internal packages:
//   - Return ErrNotFound, ErrConflict, *ValidationError or *TransitionError
//     for domain outcomes
//   - Wrap infrastructure errors with context using fmt.Errorf("context: %w", err)
//   - Do not log errors in non-handler code (avoid double logging)

// standard error codes
const (
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeValidationError   = "validation_error"
	CodeInvalidTransition = "invalid_transition"
	CodeServerError       = "server_error"
	CodeBadRequest        = "bad_request"
	CodeConflict          = "conflict"
	CodeTooManyRequests   = "too_many_requests"
)

// maps a service error to the matching response
func Respond(c *gin.Context, err error) {
	var validation *ValidationError
	var transition *TransitionError

	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, ErrNotFound):
		NotFound(c, "")
	case errors.Is(err, ErrConflict):
		Conflict(c, "resource was modified concurrently, reload and retry")
	case errors.As(err, &validation):
		ValidationFailed(c, validation)
	case errors.As(err, &transition):
		InvalidTransition(c, transition)
	default:
		InternalError(c, "an error occurred", err)
	}
}

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "not authenticated"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	// add details if error provided
	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 400 bad request error for validation failures
func ValidationFailed(c *gin.Context, err error) {
	message := "validation failed"
	details := ""

	var validation *ValidationError
	if errors.As(err, &validation) {
		// field-level messages are written by us and safe to expose
		message = validation.Error()
	} else if err != nil {
		details = sanitizeError(err)
		message = "request validation failed"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Details: details,
	})
}

// returns a 422 error naming both statuses of the rejected transition and
// listing the ones that are allowed instead
func InvalidTransition(c *gin.Context, err *TransitionError) {
	details := "allowed: none"
	if len(err.Allowed) > 0 {
		details = "allowed: " + strings.Join(err.Allowed, ", ")
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   CodeInvalidTransition,
		Message: err.Error(),
		Details: details,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	// return sanitized error to client
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 409 conflict error
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}

	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   CodeConflict,
		Message: message,
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// validates a UUID string format
func IsValidUUID(id string) bool {
	if id == "" {
		return false
	}

	_, err := uuid.Parse(id)
	return err == nil
}

// reads a UUID path parameter; malformed ids answer 404 like unknown ones
func ValidatePathUUID(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)

	if id == "" {
		BadRequest(c, "missing "+paramName, nil)
		return "", false
	}

	if !IsValidUUID(id) {
		NotFound(c, "")
		return "", false
	}

	return id, true
}
