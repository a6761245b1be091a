package storage

import (
	"context"
	"time"

	"github.com/radiusdt/ad-insights/internal/models"
)

// RowStore fetches raw analytics rows written by the ingestion sync.
// Rows are filtered to campaigns the user owns and to the inclusive
// date range. Empty platform or campaign filters mean "all".
type RowStore interface {
	FetchRows(ctx context.Context, userID string, start, end time.Time, platforms []models.Platform, campaigns []string) ([]models.MetricRow, error)
}

// CacheStore is the query-result cache. Entries are keyed by the full
// query fingerprint and expire by TTL; Get treats an expired entry as
// absent whether or not it has been purged yet. Set upserts, replacing
// the payload and extending the expiry from now. Concurrent get, set
// and purge against the same key rely on the backing store's native
// upsert atomicity; there is no locking above it.
type CacheStore interface {
	// Get returns the cached payload, or (nil, nil) when the key is
	// absent or expired.
	Get(ctx context.Context, fingerprint string) ([]byte, error)
	Set(ctx context.Context, fingerprint, userID string, payload []byte, ttl time.Duration) error

	// PurgeExpired deletes entries past their expiry. Space reclamation
	// only; Get is correct without it.
	PurgeExpired(ctx context.Context) (int64, error)

	// Administrative invalidation, exposed on the admin surface.
	ClearUser(ctx context.Context, userID string) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
}
