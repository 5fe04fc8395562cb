package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/contactsite/pkg/cache"
)

// Store counts hits per key. Incr increments the counter for key, creating
// it with the given TTL, and returns the new value.
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisStore counts with a pipelined INCR and EXPIRE so that replicas share
// one budget.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore. Keys are stored as prefix+key.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Incr implements Store.
func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	k := s.prefix + key
	pipe := s.client.Pipeline()
	cnt := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return cnt.Val(), nil
}

// MemoryStore counts in process, backed by a cache.Memory.
type MemoryStore struct {
	counters *cache.Memory[int64]
	mu       sync.Mutex
}

// NewMemoryStore creates a MemoryStore. maxKeys bounds memory use; the least
// recently used counters are dropped first.
func NewMemoryStore(maxKeys int) *MemoryStore {
	return &MemoryStore{
		counters: cache.NewMemory[int64](
			cache.WithMaxEntries(maxKeys),
			cache.WithCleanupInterval(time.Minute),
		),
	}
}

// Incr implements Store.
func (s *MemoryStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok, err := s.counters.Add(ctx, key, 1, ttl); err != nil {
		return 0, err
	} else if ok {
		return 1, nil
	}

	n, err := s.counters.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n++
	if err := s.counters.Set(ctx, key, n, ttl); err != nil {
		return 0, err
	}
	return n, nil
}

// Close stops the underlying cache janitor.
func (s *MemoryStore) Close() error {
	return s.counters.Close()
}
