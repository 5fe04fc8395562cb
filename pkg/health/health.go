package health

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	defaultTimeout = 5 * time.Second
)

// CheckFunc reports a dependency problem as a non-nil error.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to their check.
type Checks map[string]CheckFunc

// Result is the outcome of one check.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates all results; Status is unhealthy if any check failed.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks,omitempty"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool { return r.Status == StatusHealthy }

// Checker runs a fixed set of checks concurrently under one deadline.
type Checker struct {
	checks  Checks
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds a whole run. Defaults to 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failed checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.log = l }
}

// New returns a Checker for checks.
func New(checks Checks, opts ...Option) *Checker {
	c := &Checker{checks: maps.Clone(checks), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Names returns the registered check names, sorted.
func (c *Checker) Names() []string {
	return slices.Sorted(maps.Keys(c.checks))
}

// Run executes every check and waits for all of them.
func (c *Checker) Run(ctx context.Context) Report {
	report := Report{Status: StatusHealthy}
	if len(c.checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	report.Checks = make(map[string]Result, len(c.checks))
	for name, check := range c.checks {
		g.Go(func() error {
			res := Result{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				res = Result{Status: StatusUnhealthy, Error: err.Error()}
				if c.log != nil {
					c.log.WarnContext(ctx, "health check failed", slog.String("check", name), slog.Any("error", err))
				}
			}
			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = res
			if res.Status == StatusUnhealthy {
				report.Status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}
