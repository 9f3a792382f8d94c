package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"codeberg.org/lumina/server/internal/events"
)

// message type constants for websocket communication
const (
	// is sent to a client right after it registers
	TypeConnected = "connected"

	// carries a lifecycle event for the connected user
	TypeEvent = "event"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// clients only send pings, so inbound frames stay small
	maxMessageSize = 4 * 1024

	sendBufferSize = 64

	// inbound frames allowed per second, with a small burst
	inboundRate  = 2
	inboundBurst = 5
)

// hub limits
const (
	maxConnectionsPerUser = 5
	maxConnectionsPerIP   = 10

	// events waiting for the hub loop; Publish drops beyond this
	eventBufferSize = 256
)

var (
	ErrConnectionClosed = errors.New("connection closed")
)

// represents a websocket message sent to clients
type Message struct {
	Type      string        `json:"type"`
	Event     *events.Event `json:"event,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// fans out lifecycle events to each user's open connections
type Hub struct {
	users map[string]map[string]*Client

	Register   chan *Client
	Unregister chan *Client

	events chan events.Event

	ipConnections map[string]int

	shutdown     chan struct{}
	shutdownOnce sync.Once
	stopped      chan struct{}

	mu sync.RWMutex
}

// one websocket connection owned by an authenticated user
type Client struct {
	ID        string
	UserID    string
	IPAddress string

	conn    *websocket.Conn
	hub     *Hub
	send    chan []byte
	inbound *rate.Limiter

	mu     sync.RWMutex
	closed bool
}
