package websocket

import (
	"context"
	"time"

	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/internal/logger"
)

func NewHub() *Hub {
	return &Hub{
		users:         make(map[string]map[string]*Client),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		events:        make(chan events.Event, eventBufferSize),
		ipConnections: make(map[string]int),
		shutdown:      make(chan struct{}),
		stopped:       make(chan struct{}),
	}
}

// starts the hub's main loop
func (h *Hub) Run() {
	defer close(h.stopped)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.events:
			h.deliver(event)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// hands a client to the running hub. Returns false once the hub has stopped
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// asks the hub to drop a client; a no-op once the hub has stopped
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.stopped:
	}
}

// queues an event for the owning user's connections. It never blocks:
// when the queue is full the event is dropped for live delivery
func (h *Hub) Publish(_ context.Context, event events.Event) {
	if event.UserID == "" {
		return
	}

	select {
	case h.events <- event:
	default:
		logger.Warn("websocket event queue full, dropping event",
			"event", event.Type,
			"user_id", event.UserID,
		)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[string]*Client)
	}

	h.users[client.UserID][client.ID] = client

	logger.Info("client registered",
		"client_id", client.ID,
		"user_id", client.UserID,
	)

	if err := client.Send(newMessage(TypeConnected)); err != nil {
		logger.ErrorErr(err, "failed to send connected message",
			"client_id", client.ID,
			"user_id", client.UserID,
		)
	}
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, exists := h.users[client.UserID]
	if !exists {
		return
	}

	if _, exists := userClients[client.ID]; !exists {
		return
	}

	delete(userClients, client.ID)
	client.Close()

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	if len(userClients) == 0 {
		delete(h.users, client.UserID)
	}

	logger.Info("client unregistered",
		"client_id", client.ID,
		"user_id", client.UserID,
	)
}

// sends an event to every connection of its user and nobody else
func (h *Hub) deliver(event events.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := newEventMessage(event)

	for clientID, client := range h.users[event.UserID] {
		if err := client.Send(msg); err != nil {
			logger.ErrorErr(err, "failed to send event to client",
				"client_id", clientID,
				"user_id", event.UserID,
				"event", event.Type,
			)
		}
	}
}

// returns the number of open connections for a user
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users[userID])
}

// checks if a new connection should be allowed based on limits
func (h *Hub) CanAcceptConnection(userID, ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.users[userID]) >= maxConnectionsPerUser {
		return false, "maximum connections per user exceeded"
	}

	if h.ipConnections[ipAddress] >= maxConnectionsPerIP {
		return false, "maximum connections per IP address exceeded"
	}

	return true, ""
}

// increments the connection count for an IP address
func (h *Hub) TrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]++
}

// stops the loop after notifying and closing every client; safe to call twice
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

// blocks until Run has returned or the timeout elapses
func (h *Hub) Wait(timeout time.Duration) bool {
	select {
	case <-h.stopped:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	msg := newMessage(TypeServerShutdown)
	for _, userClients := range h.users {
		for _, client := range userClients {
			client.Send(msg) //nolint:errcheck,gosec // best-effort
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(200 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, userClients := range h.users {
		for _, client := range userClients {
			client.Close()
		}
	}

	h.users = make(map[string]map[string]*Client)
	h.ipConnections = make(map[string]int)
}
