package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option adjusts the client options or the connect retry policy.
type Option func(*dialer)

type dialer struct {
	opts     *redis.Options
	attempts int
	backoff  time.Duration
	log      *slog.Logger
}

// WithLogger reports failed connection attempts at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(d *dialer) { d.log = l }
}

// WithPoolSize caps open connections. Defaults to 10.
func WithPoolSize(n int) Option {
	return func(d *dialer) { d.opts.PoolSize = n }
}

// WithDialTimeout bounds connection setup. Defaults to 5s.
func WithDialTimeout(t time.Duration) Option {
	return func(d *dialer) { d.opts.DialTimeout = t }
}

// WithIOTimeout sets read and write timeouts. Defaults to 3s.
func WithIOTimeout(t time.Duration) Option {
	return func(d *dialer) {
		d.opts.ReadTimeout = t
		d.opts.WriteTimeout = t
	}
}

// WithRetry pings up to attempts times, sleeping n*backoff after the n-th
// failure. Defaults to 3 attempts with a 5s backoff.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(d *dialer) {
		d.attempts = attempts
		d.backoff = backoff
	}
}

// Open parses a redis:// or rediss:// URL and returns a client that has
// answered PING.
//
//	client, err := redis.Open(ctx, cfg.RedisURL,
//	    redis.WithRetry(5, time.Second),
//	    redis.WithLogger(log),
//	)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}
	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	parsed.PoolSize = 10
	parsed.MinIdleConns = 2
	parsed.ConnMaxIdleTime = 10 * time.Minute
	parsed.ConnMaxLifetime = 30 * time.Minute
	parsed.DialTimeout = 5 * time.Second
	parsed.ReadTimeout = 3 * time.Second
	parsed.WriteTimeout = 3 * time.Second

	d := &dialer{opts: parsed, attempts: 3, backoff: 5 * time.Second}
	for _, opt := range opts {
		opt(d)
	}
	return d.dial(ctx)
}

func (d *dialer) dial(ctx context.Context) (redis.UniversalClient, error) {
	attempts := max(d.attempts, 1)
	var err error
	for n := 1; ; n++ {
		client := redis.NewClient(d.opts)
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()
		if d.log != nil {
			d.log.WarnContext(ctx, "redis connection attempt failed",
				slog.Int("attempt", n), slog.Int("max_attempts", attempts), slog.Any("error", err))
		}
		if n == attempts {
			return nil, errors.Join(ErrConnectionFailed, err)
		}

		t := time.NewTimer(time.Duration(n) * d.backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-t.C:
		}
	}
}
