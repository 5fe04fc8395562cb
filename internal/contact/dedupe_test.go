package contact_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/internal/contact"
	"github.com/dmitrymomot/contactsite/pkg/cache"
)

func dedupeCaches(t *testing.T) map[string]cache.Cache[string] {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mem := cache.NewMemory[string]()
	t.Cleanup(func() { _ = mem.Close() })

	return map[string]cache.Cache[string]{
		"redis":  cache.NewRedis[string](client, nil, cache.WithPrefix("contact:dedupe")),
		"memory": mem,
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	for name, c := range dedupeCaches(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			d := contact.NewDedupe(c, time.Minute)

			first := contact.Submission{Email: "Matti@Example.fi", Message: "hello", Reference: "a"}
			again := contact.Submission{Email: "matti@example.fi", Message: "hello", Reference: "b"}
			other := contact.Submission{Email: "matti@example.fi", Message: "hello again", Reference: "c"}

			claim, err := d.Reserve(ctx, first)
			require.NoError(t, err)
			assert.Equal(t, contact.ClaimOwned, claim)

			claim, err = d.Reserve(ctx, again)
			require.NoError(t, err)
			assert.Equal(t, contact.ClaimPending, claim, "same email and message while delivering")

			claim, err = d.Reserve(ctx, other)
			require.NoError(t, err)
			assert.Equal(t, contact.ClaimOwned, claim)

			require.NoError(t, d.Confirm(ctx, first))
			claim, err = d.Reserve(ctx, again)
			require.NoError(t, err)
			assert.Equal(t, contact.ClaimSent, claim, "delivered fingerprint is remembered")

			require.NoError(t, d.Release(ctx, first))
			claim, err = d.Reserve(ctx, again)
			require.NoError(t, err)
			assert.Equal(t, contact.ClaimOwned, claim, "released fingerprint is free again")
		})
	}
}

func TestDedupe_PendingExpiresBeforeWindow(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	d := contact.NewDedupe(cache.NewRedis[string](client, nil), time.Hour, contact.WithPendingTTL(30*time.Second))
	s := contact.Submission{Email: "matti@example.fi", Message: "hello"}

	claim, err := d.Reserve(ctx, s)
	require.NoError(t, err)
	require.Equal(t, contact.ClaimOwned, claim)

	mr.FastForward(31 * time.Second)
	claim, err = d.Reserve(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, contact.ClaimOwned, claim, "abandoned delivery frees the fingerprint")

	require.NoError(t, d.Confirm(ctx, s))
	mr.FastForward(31 * time.Second)
	claim, err = d.Reserve(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, contact.ClaimSent, claim)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := contact.Fingerprint(contact.Submission{Email: "a@example.fi", Message: "bc"})
	b := contact.Fingerprint(contact.Submission{Email: "a@example.fib", Message: "c"})
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}
