package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Result describes one Allow decision.
type Result struct {
	RetryAfter time.Duration // zero when allowed
	Count      int64
	Limit      int
	Allowed    bool
}

// Limiter is a fixed-window counter: at most Limit hits per key in each
// Window-aligned interval.
type Limiter struct {
	store  Store
	now    func() time.Time
	prefix string
	limit  int
	window time.Duration
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithPrefix namespaces keys, e.g. "contact:".
func WithPrefix(prefix string) Option {
	return func(l *Limiter) {
		l.prefix = prefix
	}
}

// New creates a Limiter.
func New(store Store, limit int, window time.Duration, opts ...Option) (*Limiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, ErrInvalidConfig
	}
	l := &Limiter{
		store:  store,
		now:    time.Now,
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow records a hit for key. When the store fails the hit is allowed and
// the error is returned wrapped in ErrStore so callers can log it.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	slot := now.UnixNano() / int64(l.window)
	remain := time.Duration(int64(l.window) - now.UnixNano()%int64(l.window))

	n, err := l.store.Incr(ctx, l.prefix+key+":"+strconv.FormatInt(slot, 10), l.window)
	if err != nil {
		return Result{Allowed: true, Limit: l.limit}, errors.Join(ErrStore, err)
	}

	res := Result{Count: n, Limit: l.limit, Allowed: n <= int64(l.limit)}
	if !res.Allowed {
		res.RetryAfter = remain
	}
	return res, nil
}
