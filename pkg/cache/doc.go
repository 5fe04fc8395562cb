// Package cache provides a generic TTL cache with in-memory and Redis backends.
//
// Both backends implement [Cache]. A zero TTL passed to Set or Add selects the
// backend default; a negative TTL stores the value without expiry.
//
// [Memory] keeps entries in a map plus an LRU list and drops expired entries
// lazily and from a background janitor. [Redis] stores JSON (or a custom
// [Marshaler]) under an optional key prefix.
//
// [Cache.Add] is an atomic set-if-absent, used to reserve a key before doing
// work that must not run twice:
//
//	ok, err := c.Add(ctx, fingerprint, ref, 10*time.Minute)
//	if err == nil && !ok {
//		// duplicate
//	}
//
// [GetOrSet] collapses concurrent misses for the same key into a single call:
//
//	tpl, err := cache.GetOrSet(ctx, c, name, func(ctx context.Context) (string, time.Duration, error) {
//		return load(name)
//	})
package cache
