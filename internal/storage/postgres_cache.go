package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCacheStore persists cache entries in the analytics_cache
// table. The upsert relies on the table's primary key on fingerprint,
// so concurrent writers race safely at the row level.
type PostgresCacheStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCacheStore creates a new PostgreSQL-backed cache store.
func NewPostgresCacheStore(pool *pgxpool.Pool) *PostgresCacheStore {
	return &PostgresCacheStore{pool: pool}
}

// Get returns the cached payload for a fingerprint. Expired rows are
// filtered in SQL, so an entry awaiting purge behaves as absent.
func (s *PostgresCacheStore) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM analytics_cache
		WHERE fingerprint = $1 AND expires_at > now()
	`, fingerprint).Scan(&payload)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return payload, nil
}

// Set upserts a cache entry, replacing the payload and restarting the
// expiry clock from now.
func (s *PostgresCacheStore) Set(ctx context.Context, fingerprint, userID string, payload []byte, ttl time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analytics_cache (fingerprint, user_id, payload, expires_at)
		VALUES ($1, $2, $3, now() + $4)
		ON CONFLICT (fingerprint) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    payload = EXCLUDED.payload,
		    expires_at = EXCLUDED.expires_at
	`, fingerprint, userID, payload, ttl)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes all entries past their expiry.
func (s *PostgresCacheStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analytics_cache WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClearUser deletes every cache entry belonging to one user.
func (s *PostgresCacheStore) ClearUser(ctx context.Context, userID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analytics_cache WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear user cache: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClearAll empties the cache table.
func (s *PostgresCacheStore) ClearAll(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analytics_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
