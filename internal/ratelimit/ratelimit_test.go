package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_InvalidRate(t *testing.T) {
	_, err := Middleware("lots", nil)
	assert.Error(t, err)
}

func TestMiddleware_LimitsPerClient(t *testing.T) {
	mw, err := Middleware("2-M", nil)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/auth/login", mw, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))

	// other clients keep their own budget
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2"))
}
