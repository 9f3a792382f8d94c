package sessions

import (
	"context"
	"time"

	"codeberg.org/lumina/server/internal/identity"
)

// server-held session value. It is only ever replaced as a whole;
// Version is assigned by the store on every replacement
type Session struct {
	ID        string             `json:"id"`
	Identity  *identity.Identity `json:"identity,omitempty"`
	Version   uint64             `json:"version"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// returns a copy of the attached identity snapshot, or nil
func (s *Session) Snapshot() *identity.Identity {
	if s == nil || s.Identity == nil {
		return nil
	}

	id := *s.Identity
	return &id
}

func (s *Session) clone() *Session {
	c := *s
	c.Identity = s.Snapshot()
	return &c
}

// persists sessions by id
type Store interface {
	// returns ErrSessionNotFound for unknown or expired ids
	Get(ctx context.Context, id string) (*Session, error)

	// atomically swaps in the whole value, assigning Version = previous + 1
	Replace(ctx context.Context, session *Session, ttl time.Duration) (*Session, error)

	Delete(ctx context.Context, id string) error
}
