package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/contactsite/pkg/cookie"
	"github.com/dmitrymomot/contactsite/pkg/health"
)

// Option configures an App.
type Option func(*App)

// WithMiddleware appends global middleware, outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) { a.middlewares = append(a.middlewares, mw...) }
}

// WithHandlers registers handlers; their Routes run once inside New.
func WithHandlers(h ...Handler) Option {
	return func(a *App) { a.handlers = append(a.handlers, h...) }
}

// WithStaticFiles serves subDir of fsys under pattern with an hour of
// public caching. Directory paths answer 404. It panics if subDir is not
// a valid path.
//
//	contactsite.WithStaticFiles("/static/", views.Assets(), "static")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(sub))
		a.static = append(a.static, staticMount{
			pattern: pattern,
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/") {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Cache-Control", "public, max-age=3600")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				files.ServeHTTP(w, r)
			}),
		})
	}
}

// WithErrorHandler handles errors returned by handlers.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) { a.errorHandler = h }
}

// WithNotFoundHandler replaces chi's 404 response.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) { a.notFound = h }
}

// WithMethodNotAllowedHandler replaces chi's 405 response.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) { a.methodNotAllowed = h }
}

// WithHealthChecks mounts /health/live and /health/ready. Readiness runs
// the given checks concurrently and answers 503 if any fails.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		h := &healthSetup{checks: health.Checks{}}
		for _, opt := range opts {
			opt(h)
		}
		a.health = h
	}
}

// WithCustomLogger sets the logger used by the app and its contexts.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions replaces the cookie manager.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) { a.cookieManager = cookie.New(opts...) }
}

// WithTrustProxy takes the client address from X-Forwarded-For, X-Real-IP
// or True-Client-IP. Enable only behind a proxy that sets them.
func WithTrustProxy(trust bool) Option {
	return func(a *App) { a.trustProxy = trust }
}
