package websocket

import (
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/internal/logger"
)

// accepts any origin outside production; in production only the listed ones
func OriginChecker(allowedOrigins []string, production bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if !production {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			logger.Warn("websocket connection with no origin header")
			return false
		}

		if slices.Contains(allowedOrigins, origin) {
			return true
		}

		logger.Warn("websocket origin rejected - not in allowed origins",
			"origin", origin,
			"allowed_origins", allowedOrigins,
		)

		return false
	}
}

func GenerateClientID() string {
	return uuid.NewString()
}

func newEventMessage(event events.Event) *Message {
	return &Message{Type: TypeEvent, Event: &event, Timestamp: time.Now()}
}

func newMessage(msgType string) *Message {
	return &Message{Type: msgType, Timestamp: time.Now()}
}
