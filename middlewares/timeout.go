package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/contactsite/internal"
)

// DefaultTimeout applies when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

type timeoutContextKey struct{}

// Timeout bounds each request with a deadline that handlers reach through
// GetTimeoutContext. The handler runs on the request goroutine and is always
// waited for, so only one writer ever touches the response. A handler that
// answers after the deadline keeps its response; one that returns without
// writing yields a *TimeoutError for the error handler. Handlers that ignore
// the context are bounded by the server write timeout only.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			c.Set(timeoutContextKey{}, ctx)

			err := next(c)
			if c.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return err
			}

			c.LogWarn("request timeout",
				slog.String("path", c.Request().URL.Path),
				slog.Duration("timeout", timeout),
			)
			return &TimeoutError{Duration: timeout}
		}
	}
}

// GetTimeoutContext returns the deadline-bound context set by Timeout, or
// the request context when the middleware is not installed.
func GetTimeoutContext(c internal.Context) context.Context {
	if v, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return v
	}
	return c.Context()
}
