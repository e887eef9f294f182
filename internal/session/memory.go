package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps session values in process memory and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]map[string]memoryEntry
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttlOrDefault(ttl),
		now:      time.Now,
		sessions: make(map[string]map[string]memoryEntry),
	}
}

// Get returns a copy of the stored value.
func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID][key]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores value and refreshes the lifetime of the whole session.
func (s *MemoryStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]memoryEntry)
		s.sessions[sessionID] = values
	}
	expiresAt := s.now().Add(s.ttl)
	values[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: expiresAt}
	for k, e := range values {
		e.expiresAt = expiresAt
		values[k] = e
	}
	return nil
}

// Clear drops every value for the session.
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// sweepLocked removes sessions whose values have all expired.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, values := range s.sessions {
		live := false
		for _, e := range values {
			if now.Before(e.expiresAt) {
				live = true
				break
			}
		}
		if !live {
			delete(s.sessions, id)
		}
	}
}
