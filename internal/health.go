package internal

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/contactsite/pkg/health"
)

const (
	livenessPath  = "/health/live"
	readinessPath = "/health/ready"
)

type healthSetup struct {
	checks health.Checks
}

// HealthOption configures the health endpoints.
type HealthOption func(*healthSetup)

// WithReadinessCheck adds a named check to /health/ready.
//
//	contactsite.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(h *healthSetup) { h.checks[name] = fn }
}

func (h *healthSetup) mount(r chi.Router, log *slog.Logger) {
	r.Get(livenessPath, health.LivenessHandler())
	r.Get(readinessPath, health.ReadinessHandler(health.New(h.checks, health.WithLogger(log))))
}
