// Package redis opens and supervises go-redis clients.
//
// [Open] parses a redis:// or rediss:// URL, applies pool and timeout
// defaults, and pings the server with linear backoff until it answers or the
// retry budget is spent:
//
//	client, err := redis.Open(ctx, cfg.RedisURL,
//		redis.WithRetry(3, time.Second),
//		redis.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
// [Healthcheck] returns a closure for readiness checks and [Shutdown] a
// closure for the server's shutdown hooks:
//
//	contactsite.WithReadinessCheck("redis", redis.Healthcheck(client))
//	contactsite.ShutdownHook(redis.Shutdown(client))
//
// Sentinel errors ([ErrEmptyConnectionURL], [ErrFailedToParseURL],
// [ErrConnectionFailed], [ErrHealthcheckFailed]) are joined with the
// underlying cause.
package redis
