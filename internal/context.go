package internal

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/contactsite/pkg/htmx"
	"github.com/dmitrymomot/contactsite/pkg/i18n"
	"github.com/dmitrymomot/contactsite/pkg/validator"
)

const maxFormBytes = 64 << 10

type ValidationErrors = validator.ValidationErrors

// Context keys set by the I18n middleware.
type (
	TranslatorKey struct{}
	LanguageKey   struct{}
)

// Component is anything that renders HTML; templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context is the per-request handle passed to handlers and middleware. It
// is also a context.Context backed by the request context, so values added
// with Set are visible to log extractors and downstream calls.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	Context() context.Context

	// Param returns a chi URL parameter.
	Param(name string) string
	Query(name string) string
	Header(name string) string
	SetHeader(name, value string)

	// FormValues parses a url-encoded body of at most 64 KiB and returns the
	// posted values.
	FormValues() (url.Values, error)

	// ClientIP returns RemoteAddr without the port. With WithTrustProxy the
	// address has already been taken from X-Forwarded-For or X-Real-IP.
	ClientIP() string

	String(code int, s string) error
	NoContent(code int) error

	// Redirect sends a redirect, or HX-Redirect with 200 for HTMX requests.
	Redirect(code int, url string) error

	// Error builds an HTTPError for the error handler without writing.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	IsHTMX() bool

	// Render writes component as text/html. Options set HTMX response
	// headers and out-of-band swaps and are ignored for plain requests.
	Render(code int, component Component, opts ...htmx.RenderOption) error

	// RenderPartial renders partial for HTMX requests and fullPage otherwise.
	RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error

	// Written reports whether the response has started.
	Written() bool

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context; Get reads it back.
	Set(key any, value any)
	Get(key any) any

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)

	// CookieSigned and SetCookieSigned need a cookie secret and return
	// cookie.ErrNoSecret without one.
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error

	// Flash decodes and clears a one-shot value written by SetFlash.
	Flash(key string, dest any) error
	SetFlash(key string, value any) error

	// T translates key with the translator stored by the I18n middleware,
	// returning key unchanged without one.
	T(key string, placeholders ...i18n.M) string

	// TranslateErrors localizes validation messages in place.
	TranslateErrors(errs ValidationErrors) ValidationErrors

	// Language is the language resolved by the I18n middleware, or "".
	Language() string
}

type requestContext struct {
	w   *ResponseWriter
	r   *http.Request
	app *App
}

// newContext wraps w once; nested middleware layers share that
// ResponseWriter so Written stays accurate across them.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}
	return &requestContext{w: rw, r: r, app: app}
}

func (c *requestContext) Request() *http.Request        { return c.r }
func (c *requestContext) Response() http.ResponseWriter { return c.w }
func (c *requestContext) Context() context.Context      { return c.r.Context() }

func (c *requestContext) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *requestContext) Err() error                  { return c.r.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.r.Context().Value(key) }

func (c *requestContext) Param(name string) string     { return chi.URLParam(c.r, name) }
func (c *requestContext) Query(name string) string     { return c.r.URL.Query().Get(name) }
func (c *requestContext) Header(name string) string    { return c.r.Header.Get(name) }
func (c *requestContext) SetHeader(name, value string) { c.w.Header().Set(name, value) }
func (c *requestContext) IsHTMX() bool                 { return htmx.IsHTMX(c.r) }
func (c *requestContext) Written() bool                { return c.w.Written() }

func (c *requestContext) FormValues() (url.Values, error) {
	if c.r.PostForm != nil {
		return c.r.PostForm, nil
	}
	c.r.Body = http.MaxBytesReader(c.w, c.r.Body, maxFormBytes)
	if err := c.r.ParseForm(); err != nil {
		return nil, err
	}
	return c.r.PostForm, nil
}

func (c *requestContext) ClientIP() string {
	if host, _, err := net.SplitHostPort(c.r.RemoteAddr); err == nil {
		return host
	}
	return c.r.RemoteAddr
}

func (c *requestContext) Set(key, value any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.r.Context().Value(key) }

func (c *requestContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *requestContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *requestContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *requestContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *requestContext) log(level slog.Level, msg string, attrs []any) {
	c.app.logger.Log(c.r.Context(), level, msg, attrs...)
}

// ContextValue returns the value stored under key with Set, or the zero
// value of T when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}
