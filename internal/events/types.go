package events

import (
	"context"
	"time"
)

// lifecycle event types
const (
	UserRegistered = "user.registered"
	UserSignedIn   = "user.signed_in"
	UserUpdated    = "user.updated"

	ProjectCreated      = "project.created"
	ProjectUpdated      = "project.updated"
	ProjectTransitioned = "project.transitioned"
	ProjectDeleted      = "project.deleted"

	TaskCreated  = "task.created"
	TaskUpdated  = "task.updated"
	TaskAssigned = "task.assigned"
	TaskDeleted  = "task.deleted"
)

// a structured record of something that happened to a user's data
type Event struct {
	Type     string         `json:"type"`
	UserID   string         `json:"user_id"`
	EntityID string         `json:"entity_id,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	At       time.Time      `json:"at"`
}

// receives events. Publish must not block the caller for long and must
// never fail the operation that produced the event
type Sink interface {
	Publish(ctx context.Context, event Event)
}
