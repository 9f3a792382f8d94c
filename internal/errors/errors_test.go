package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/projects/1", nil)

	Respond(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespond_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthorized},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized},
		{"not found", ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"wrapped not found", fmt.Errorf("get project: %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"conflict", ErrConflict, http.StatusConflict, CodeConflict},
		{"validation", Invalid("name", "is required"), http.StatusBadRequest, CodeValidationError},
		{"transition", &TransitionError{From: "new", To: "completed"}, http.StatusUnprocessableEntity, CodeInvalidTransition},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := respond(t, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantErr, body.Error)
		})
	}
}

func TestRespond_TransitionNamesBothStatuses(t *testing.T) {
	_, body := respond(t, &TransitionError{From: "in_progress", To: "new"})

	assert.Contains(t, body.Message, "in_progress")
	assert.Contains(t, body.Message, "new")
	assert.Equal(t, "allowed: none", body.Details)

	_, body = respond(t, &TransitionError{From: "new", To: "paused", Allowed: []string{"in_progress", "cancelled"}})
	assert.Equal(t, "allowed: in_progress, cancelled", body.Details)
}

func TestRespond_NotFoundDoesNotLeakCause(t *testing.T) {
	_, masked := respond(t, fmt.Errorf("owned by someone else: %w", ErrNotFound))
	_, missing := respond(t, ErrNotFound)

	assert.Equal(t, missing, masked)
}

func TestSanitizeError_Production(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	assert.Equal(t, "database operation failed", sanitizeError(&pgconn.PgError{Message: "relation missing"}))
	assert.Equal(t, "an error occurred", sanitizeError(fmt.Errorf("secret internals")))
}

func TestSanitizeError_Development(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	assert.Equal(t, "secret internals", sanitizeError(fmt.Errorf("secret internals")))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3f2b8c9e-1a4d-4c6b-9e2f-7a8b9c0d1e2f"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("'; DROP TABLE projects; --"))
}
