// Package ratelimit implements a fixed-window counter with Redis and
// in-memory stores.
//
// Each key gets its own counter per window-aligned interval. Redis counters
// are shared by every replica:
//
//	l, err := ratelimit.New(ratelimit.NewRedisStore(client, "rl:"), 5, 10*time.Minute)
//	res, err := l.Allow(ctx, clientIP)
//	if err != nil {
//		// store unavailable, res.Allowed is true
//	}
//	if !res.Allowed {
//		// throttled for res.RetryAfter
//	}
package ratelimit
