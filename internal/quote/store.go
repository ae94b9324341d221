package quote

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("quote session not found")

// SessionStore persists quote sessions between requests. Abandoned or
// completed sessions are deleted; stores expire entries on their own after
// a TTL, which models payment abandonment.
type SessionStore interface {
	// Save persists the session, overwriting any previous version.
	Save(ctx context.Context, session *Session) error

	// Get retrieves a session by id. Returns ErrSessionNotFound if absent.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}
