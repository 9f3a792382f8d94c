package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"codeberg.org/lumina/server/internal/logger"
)

// builds an event stamped with the current time
func New(eventType, userID, entityID string, payload map[string]any) Event {
	return Event{
		Type:     eventType,
		UserID:   userID,
		EntityID: entityID,
		Payload:  payload,
		At:       time.Now().UTC(),
	}
}

// returns sink, or a no-op sink when it is nil
func OrDiscard(sink Sink) Sink {
	if sink == nil {
		return Discard{}
	}

	return sink
}

// drops every event
type Discard struct{}

func (Discard) Publish(context.Context, Event) {}

// writes events as structured log records
type LogSink struct {
	log *slog.Logger
}

// a nil logger falls back to the process default
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = logger.Default()
	}

	return &LogSink{log: log}
}

func (s *LogSink) Publish(ctx context.Context, event Event) {
	args := []any{
		"event", event.Type,
		"user_id", event.UserID,
	}

	if event.EntityID != "" {
		args = append(args, "entity_id", event.EntityID)
	}

	for k, v := range event.Payload {
		args = append(args, k, v)
	}

	s.log.InfoContext(ctx, "domain event", args...)
}

// fans an event out to several sinks in order
type Multi []Sink

func NewMulti(sinks ...Sink) Multi {
	out := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}

	return out
}

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, s := range m {
		s.Publish(ctx, event)
	}
}

// records published events in memory; used by tests
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// returns the recorded event types in order
func (r *Recorder) Types() []string {
	events := r.Events()

	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}

	return types
}
