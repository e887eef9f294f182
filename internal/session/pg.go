package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore keeps session values in the session_values table.
type PGStore struct {
	DB  *sql.DB
	TTL time.Duration
	Now func() time.Time
}

const (
	pgGetValue = `
SELECT value
FROM session_values
WHERE session_id = $1 AND key = $2 AND expires_at > $3`

	pgUpsertValue = `
INSERT INTO session_values (session_id, key, value, expires_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (session_id, key)
DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`

	pgClearSession = `DELETE FROM session_values WHERE session_id = $1`

	pgPurgeExpired = `DELETE FROM session_values WHERE expires_at <= $1`
)

func (s *PGStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns the stored value, ignoring expired rows.
func (s *PGStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value []byte
	err := s.DB.QueryRowContext(ctx, pgGetValue, sessionID, key, s.now()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts the value with a fresh expiry.
func (s *PGStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	now := s.now()
	_, err := s.DB.ExecContext(ctx, pgUpsertValue, sessionID, key, value, now.Add(ttlOrDefault(s.TTL)), now)
	return err
}

// Clear deletes every row of the session.
func (s *PGStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.DB.ExecContext(ctx, pgClearSession, sessionID)
	return err
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (s *PGStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, pgPurgeExpired, s.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
