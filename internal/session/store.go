// Package session keeps the most recent analysis state for an anonymous
// browser session. Values live for the session lifetime only.
package session

import (
	"context"
	"errors"
	"time"
)

const (
	KeyLastAnalysis   = "lastAnalysis"
	KeyLastResumeText = "lastResumeText"
)

// DefaultTTL is used when a store is constructed without a lifetime.
const DefaultTTL = 2 * time.Hour

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("session value not found")

// Store is a session-scoped key/value store.
type Store interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Clear(ctx context.Context, sessionID string) error
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
