package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/internal/logger"
)

// Handler godoc
// @Summary Health check
// @Description Reports healthy when every dependency answers a ping
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(deps ...Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, dep := range deps {
			if err := dep.Ping(c.Request.Context()); err != nil {
				logger.Warn("health check failed", "error", err)

				c.JSON(http.StatusServiceUnavailable, Response{
					Status:  "unhealthy",
					Service: serviceName,
					Version: version,
				})
				return
			}
		}

		c.JSON(http.StatusOK, Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		})
	}
}
