package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix     = "analytics:cache:"
	cacheUserKeyPrefix = "analytics:cache:user:"
)

// RedisCacheStore keeps cache entries in Redis, leaning on native key
// TTLs for expiry. A per-user set of fingerprints backs ClearUser; the
// set may reference already-expired entries, deleting those is a no-op.
type RedisCacheStore struct {
	client *redis.Client
}

// NewRedisCacheStore creates a new Redis-backed cache store.
func NewRedisCacheStore(client *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{client: client}
}

// Get returns the cached payload, or (nil, nil) once the key's TTL has
// elapsed.
func (s *RedisCacheStore) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	payload, err := s.client.Get(ctx, cacheKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return payload, nil
}

// Set stores the payload with the given TTL and indexes the fingerprint
// under the owning user.
func (s *RedisCacheStore) Set(ctx context.Context, fingerprint, userID string, payload []byte, ttl time.Duration) error {
	userKey := cacheUserKeyPrefix + userID

	pipe := s.client.Pipeline()
	pipe.Set(ctx, cacheKeyPrefix+fingerprint, payload, ttl)
	pipe.SAdd(ctx, userKey, fingerprint)
	// The user index outlives its newest entry by one TTL so ClearUser
	// always sees every live fingerprint.
	pipe.Expire(ctx, userKey, 2*ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis evicts expired keys itself.
func (s *RedisCacheStore) PurgeExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// ClearUser deletes every cache entry indexed under one user.
func (s *RedisCacheStore) ClearUser(ctx context.Context, userID string) (int64, error) {
	userKey := cacheUserKeyPrefix + userID

	fingerprints, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list user cache entries: %w", err)
	}
	if len(fingerprints) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(fingerprints)+1)
	for _, fp := range fingerprints {
		keys = append(keys, cacheKeyPrefix+fp)
	}
	keys = append(keys, userKey)

	deleted, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to clear user cache: %w", err)
	}
	return deleted, nil
}

// ClearAll deletes every cache entry by prefix scan.
func (s *RedisCacheStore) ClearAll(ctx context.Context) (int64, error) {
	var deleted int64

	iter := s.client.Scan(ctx, 0, cacheKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to clear cache: %w", err)
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return deleted, nil
}
