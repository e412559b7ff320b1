// Package cache is a small read cache over redis for the container
// occupancy listings, which the dashboard polls aggressively. Values are
// JSON blobs with a short TTL; every mutation that changes occupancy
// invalidates them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns nil when no redis client is configured. All Store methods are
// nil-safe, so callers never need to branch on caching being enabled.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func containersKey(archived bool) string {
	return fmt.Sprintf("saga:containers:archived=%t", archived)
}

// GetContainers loads a cached listing into dest. false means miss (or no
// cache, or a stale/undecodable value, which is deleted).
func (s *Store) GetContainers(ctx context.Context, archived bool, dest any) bool {
	if s == nil {
		return false
	}
	b, err := s.rdb.Get(ctx, containersKey(archived)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		_ = s.rdb.Del(ctx, containersKey(archived)).Err()
		return false
	}
	return true
}

func (s *Store) SetContainers(ctx context.Context, archived bool, v any) {
	if s == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, containersKey(archived), b, s.ttl).Err()
}

// InvalidateContainers drops both listing variants. Called after any
// mutation that can change occupancy or container fields.
func (s *Store) InvalidateContainers(ctx context.Context) {
	if s == nil {
		return
	}
	_ = s.rdb.Del(ctx, containersKey(false), containersKey(true)).Err()
}
