package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keySession = "lumina:session:%s"

	// optimistic WATCH retries before giving up on a replacement
	maxReplaceAttempts = 5
)

// implements Store using Redis; each session is one JSON value
type RedisStore struct {
	client *redis.Client
}

// creates a new Redis-backed session store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keySession, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// reads the previous version and writes the new value inside one WATCH
// transaction, so concurrent writers never interleave
func (s *RedisStore) Replace(ctx context.Context, session *Session, ttl time.Duration) (*Session, error) {
	key := fmt.Sprintf(keySession, session.ID)
	var stored *Session

	txf := func(tx *redis.Tx) error {
		var version uint64

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var prev Session
			if json.Unmarshal(data, &prev) == nil {
				version = prev.Version
			}
		}

		next := session.clone()
		next.Version = version + 1

		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})

		if err == nil {
			stored = next
		}

		return err
	}

	for range maxReplaceAttempts {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return stored, nil
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return nil, fmt.Errorf("failed to replace session in redis: %w", err)
	}

	return nil, ErrSessionContended
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, fmt.Sprintf(keySession, id)).Err()
}
