package sessions

import (
	"context"
	"sync"
	"time"
)

const memoryCleanupInterval = 5 * time.Minute

// MemoryStore implements Store in process memory (development and tests)
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	done    chan struct{}
	closed  bool
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// creates a new in-memory store with a background sweeper
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, ErrSessionNotFound
	}

	return entry.session.clone(), nil
}

func (s *MemoryStore) Replace(_ context.Context, session *Session, ttl time.Duration) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version uint64
	if prev, ok := s.entries[session.ID]; ok && !s.now().After(prev.expiresAt) {
		version = prev.session.Version
	}

	stored := session.clone()
	stored.Version = version + 1

	s.entries[session.ID] = memoryEntry{
		session:   stored,
		expiresAt: s.now().Add(ttl),
	}

	return stored.clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	close(s.done)
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(memoryCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
