package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "codeberg.org/lumina/server/internal/websocket"
)

// registers the live event feed; guard must already run on router
func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub, checkOrigin func(*http.Request) bool) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	router.GET("/events", EventsHandler(hub, upgrader))
}
