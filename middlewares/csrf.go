package middlewares

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/contactsite/internal"
)

// CSRF defaults.
const (
	DefaultCSRFCookie = "csrf"
	DefaultCSRFField  = "csrf_token"
	DefaultCSRFHeader = "X-CSRF-Token"
	DefaultCSRFMaxAge = 12 * 60 * 60
)

// csrfTokenKey is the context key for the current CSRF token.
type csrfTokenKey struct{}

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	CookieName string // Signed cookie holding the token
	FieldName  string // Form field checked on unsafe requests
	HeaderName string // Header checked before the form field
	MaxAge     int    // Cookie lifetime in seconds
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFCookieName sets the token cookie name.
func WithCSRFCookieName(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.CookieName = name
	}
}

// WithCSRFFieldName sets the form field carrying the token.
func WithCSRFFieldName(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.FieldName = name
	}
}

// WithCSRFHeaderName sets the request header carrying the token.
func WithCSRFHeaderName(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.HeaderName = name
	}
}

// WithCSRFMaxAge sets the cookie lifetime in seconds.
func WithCSRFMaxAge(seconds int) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.MaxAge = seconds
	}
}

// CSRF returns middleware implementing a signed double-submit cookie.
//
// Every request gets a token, stored in a signed cookie and exposed through
// GetCSRFToken for rendering into forms. POST, PUT, PATCH and DELETE must echo
// the token in the header or the form field, otherwise a 403 HTTPError is
// returned. The app cookie manager must be configured with a secret.
func CSRF(opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{
		CookieName: DefaultCSRFCookie,
		FieldName:  DefaultCSRFField,
		HeaderName: DefaultCSRFHeader,
		MaxAge:     DefaultCSRFMaxAge,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			token, err := c.CookieSigned(cfg.CookieName)
			if err != nil || token == "" {
				token = rand.Text()
				if err := c.SetCookieSigned(cfg.CookieName, token, cfg.MaxAge); err != nil {
					return fmt.Errorf("csrf: set cookie: %w", err)
				}
			}

			c.Set(csrfTokenKey{}, token)

			if isSafeMethod(c.Request().Method) {
				return next(c)
			}

			sent := c.Header(cfg.HeaderName)
			if sent == "" {
				values, err := c.FormValues()
				if err != nil {
					return c.Error(http.StatusBadRequest, "invalid form", internal.WithError(err))
				}
				sent = values.Get(cfg.FieldName)
			}

			if sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				c.LogWarn("csrf token mismatch", "method", c.Request().Method, "path", c.Request().URL.Path)
				return internal.ErrForbidden("invalid csrf token", internal.WithErrorCode("csrf_invalid"))
			}

			return next(c)
		}
	}
}

// GetCSRFToken returns the token for the current request.
// Returns an empty string if the CSRF middleware is not used.
func GetCSRFToken(c internal.Context) string {
	if v, ok := c.Get(csrfTokenKey{}).(string); ok {
		return v
	}
	return ""
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
