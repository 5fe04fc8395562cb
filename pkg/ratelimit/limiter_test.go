package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/pkg/ratelimit"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func stores(t *testing.T) map[string]ratelimit.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mem := ratelimit.NewMemoryStore(1000)
	t.Cleanup(func() { _ = mem.Close() })

	return map[string]ratelimit.Store{
		"redis":  ratelimit.NewRedisStore(client, "rl:"),
		"memory": mem,
	}
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			clk := &clock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

			l, err := ratelimit.New(store, 2, time.Minute, ratelimit.WithClock(clk.Now), ratelimit.WithPrefix(name+":"))
			require.NoError(t, err)

			for i := range 2 {
				res, err := l.Allow(ctx, "203.0.113.7")
				require.NoError(t, err)
				assert.True(t, res.Allowed, "hit %d", i+1)
			}

			clk.Advance(15 * time.Second)
			res, err := l.Allow(ctx, "203.0.113.7")
			require.NoError(t, err)
			assert.False(t, res.Allowed)
			assert.Equal(t, int64(3), res.Count)
			assert.Equal(t, 45*time.Second, res.RetryAfter)

			other, err := l.Allow(ctx, "198.51.100.1")
			require.NoError(t, err)
			assert.True(t, other.Allowed, "keys are independent")

			clk.Advance(time.Minute)
			res, err = l.Allow(ctx, "203.0.113.7")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "new window resets the count")
		})
	}
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestLimiter_FailsOpen(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(failingStore{}, 1, time.Minute)
	require.NoError(t, err)

	res, err := l.Allow(context.Background(), "k")
	require.ErrorIs(t, err, ratelimit.ErrStore)
	assert.True(t, res.Allowed)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := ratelimit.New(failingStore{}, 0, time.Minute)
	require.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
	_, err = ratelimit.New(failingStore{}, 1, 0)
	require.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
}

func TestRedisStore_SetsTTL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := ratelimit.NewRedisStore(client, "rl:")
	n, err := s.Incr(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, mr.TTL("rl:k"))
}
