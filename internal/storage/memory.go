package storage

import (
	"context"
	"sync"
	"time"

	"github.com/radiusdt/ad-insights/internal/models"
)

// InMemoryRowStore provides in-memory storage for raw metric rows.
// Used when PostgreSQL is unavailable and throughout the test suite.
type InMemoryRowStore struct {
	mu sync.RWMutex

	// rowsByUser maps a user ID to that user's ingested rows.
	rowsByUser map[string][]models.MetricRow
}

// NewInMemoryRowStore creates a new in-memory row store.
func NewInMemoryRowStore() *InMemoryRowStore {
	return &InMemoryRowStore{
		rowsByUser: make(map[string][]models.MetricRow),
	}
}

// AddRows ingests rows for a user. Invalid rows are rejected whole.
func (s *InMemoryRowStore) AddRows(userID string, rows []models.MetricRow) error {
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowsByUser[userID] = append(s.rowsByUser[userID], rows...)
	return nil
}

// FetchRows returns the user's rows in the inclusive date range. Empty
// platform or campaign filters match everything.
func (s *InMemoryRowStore) FetchRows(ctx context.Context, userID string, start, end time.Time, platforms []models.Platform, campaigns []string) ([]models.MetricRow, error) {
	platformSet := make(map[models.Platform]struct{}, len(platforms))
	for _, p := range platforms {
		platformSet[p] = struct{}{}
	}
	campaignSet := make(map[string]struct{}, len(campaigns))
	for _, c := range campaigns {
		campaignSet[c] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MetricRow, 0)
	for _, row := range s.rowsByUser[userID] {
		if row.Date.Before(start) || row.Date.After(end) {
			continue
		}
		if len(platformSet) > 0 {
			if _, ok := platformSet[row.Platform]; !ok {
				continue
			}
		}
		if len(campaignSet) > 0 {
			if _, ok := campaignSet[row.CampaignID]; !ok {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// memoryCacheEntry is one cached payload with its absolute expiry.
type memoryCacheEntry struct {
	userID    string
	payload   []byte
	expiresAt time.Time
}

// InMemoryCacheStore provides in-memory cache storage. Used when
// neither Redis nor PostgreSQL is available and throughout the test
// suite.
type InMemoryCacheStore struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry

	// now is swappable so tests can drive expiry.
	now func() time.Time
}

// NewInMemoryCacheStore creates a new in-memory cache store.
func NewInMemoryCacheStore() *InMemoryCacheStore {
	return &InMemoryCacheStore{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached payload, treating expired entries as absent
// even before they are purged.
func (s *InMemoryCacheStore) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[fingerprint]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, nil
	}
	return entry.payload, nil
}

// Set upserts an entry, replacing the payload and extending the expiry
// from now.
func (s *InMemoryCacheStore) Set(ctx context.Context, fingerprint, userID string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[fingerprint] = memoryCacheEntry{
		userID:    userID,
		payload:   payload,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// PurgeExpired deletes all entries past their expiry.
func (s *InMemoryCacheStore) PurgeExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	now := s.now()
	for fingerprint, entry := range s.entries {
		if entry.expiresAt.Before(now) {
			delete(s.entries, fingerprint)
			count++
		}
	}
	return count, nil
}

// ClearUser deletes every entry belonging to one user.
func (s *InMemoryCacheStore) ClearUser(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for fingerprint, entry := range s.entries {
		if entry.userID == userID {
			delete(s.entries, fingerprint)
			count++
		}
	}
	return count, nil
}

// ClearAll empties the cache.
func (s *InMemoryCacheStore) ClearAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := int64(len(s.entries))
	s.entries = make(map[string]memoryCacheEntry)
	return count, nil
}
