package htmx

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Renderable is satisfied by templ.Component.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Config is the response shaping requested for one partial render.
type Config struct {
	Retarget      string
	Reswap        SwapStrategy
	Triggers      []string
	OOBComponents []Renderable
}

// RenderOption adjusts a Config.
type RenderOption func(*Config)

// NewConfig applies opts to an empty Config.
func NewConfig(opts ...RenderOption) *Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// ApplyHeaders sets the HX-* response headers; call it before WriteHeader.
func (c *Config) ApplyHeaders(w http.ResponseWriter) {
	h := w.Header()
	set := func(name, v string) {
		if v != "" {
			h.Set(name, v)
		}
	}
	set(HeaderHXRetarget, c.Retarget)
	set(HeaderHXReswap, string(c.Reswap))
	set(HeaderHXTrigger, strings.Join(c.Triggers, ", "))
}

// WithRetarget swaps into selector instead of the element's hx-target.
func WithRetarget(selector string) RenderOption {
	return func(c *Config) { c.Retarget = selector }
}

// WithReswap replaces the element's hx-swap strategy.
func WithReswap(s SwapStrategy) RenderOption {
	return func(c *Config) { c.Reswap = s }
}

// WithTrigger fires client events once the response is swapped in.
func WithTrigger(events ...string) RenderOption {
	return func(c *Config) { c.Triggers = append(c.Triggers, events...) }
}

// WithOOB renders extra components after the main one. Each must carry an
// id and hx-swap-oob.
func WithOOB(components ...Renderable) RenderOption {
	return func(c *Config) { c.OOBComponents = append(c.OOBComponents, components...) }
}
