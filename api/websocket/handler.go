package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
	ws "codeberg.org/lumina/server/internal/websocket"
)

// upgrades an authenticated request into a feed of the user's own events
// @Summary Live event feed
// @Tags events
// @Success 101 {string} string "switching protocols"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /ws/events [get]
func EventsHandler(hub *ws.Hub, upgrader websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		ipAddress := c.ClientIP()
		if canAccept, reason := hub.CanAcceptConnection(userID, ipAddress); !canAccept {
			errors.TooManyRequests(c, reason)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"user_id", userID,
				"ip", ipAddress,
			)

			return
		}

		// track IP connection only after successful upgrade
		hub.TrackIPConnection(ipAddress)

		client := ws.NewClient(ws.GenerateClientID(), userID, ipAddress, conn, hub)
		if !hub.Join(client) {
			client.Close()
			conn.Close() //nolint:errcheck,gosec // server is shutting down
			return
		}

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", client.ID,
			"user_id", userID,
		)
	}
}
