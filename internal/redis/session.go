package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taxitoday/internal/quote"
)

// SessionTTL bounds how long an unfinished quote survives. A session that
// is never completed simply expires, which models payment abandonment.
const SessionTTL = 30 * time.Minute

const sessionKeyPrefix = "quote:session:"

// SessionStore persists quote sessions in Redis as JSON with a TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a new SessionStore with the default TTL.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, ttl: SessionTTL}
}

// Save persists the session, resetting its TTL.
func (s *SessionStore) Save(ctx context.Context, session *quote.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, data, s.ttl).Err()
}

// Get retrieves a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (*quote.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, quote.ErrSessionNotFound
		}
		return nil, err
	}

	var session quote.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}
