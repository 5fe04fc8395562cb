package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/middlewares"
	"github.com/dmitrymomot/contactsite/views"
)

// ErrUnexpectedOutcome is returned when the pipeline ends in a state the
// handler has no response for.
var ErrUnexpectedOutcome = errors.New("handlers: unexpected pipeline outcome")

// genericError is shown for every 5xx; causes are only logged.
const genericError = "An internal error occurred."

// statusText maps status codes to translation keys and English fallbacks.
var statusText = map[int]struct{ key, fallback string }{
	http.StatusBadRequest:         {"error.bad_request", "Bad request."},
	http.StatusForbidden:          {"error.forbidden", "Your form session expired. Reload the page and try again."},
	http.StatusNotFound:           {"error.not_found", "The page you are looking for does not exist."},
	http.StatusMethodNotAllowed:   {"error.method_not_allowed", "This method is not allowed."},
	http.StatusServiceUnavailable: {"error.timeout", "The request timed out. Please try again."},
}

// Errors renders error pages.
type Errors struct {
	languages []string
}

// NewErrors creates the error page renderer.
func NewErrors(languages ...string) *Errors {
	return &Errors{languages: languages}
}

// Handle is the application ErrorHandler. It logs the cause and renders a
// page with a fixed message for the status; raw errors are never shown.
func (h *Errors) Handle(c contactsite.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case middlewares.IsTimeoutError(err):
		code = http.StatusServiceUnavailable
		c.LogWarn("request timed out", "error", err)
	case middlewares.IsPanicError(err):
		// Recover has logged the panic with its stack.
	default:
		if herr := contactsite.AsHTTPError(err); herr != nil && herr.Code > 0 {
			code = herr.Code
		}
		if code >= http.StatusInternalServerError {
			c.LogError("request failed", "error", err, "status", code)
		} else {
			c.LogWarn("request rejected", "error", err, "status", code)
		}
	}

	return h.render(c, code)
}

// NotFound renders the 404 page.
func (h *Errors) NotFound(c contactsite.Context) error {
	return h.render(c, http.StatusNotFound)
}

// MethodNotAllowed renders the 405 page.
func (h *Errors) MethodNotAllowed(c contactsite.Context) error {
	return h.render(c, http.StatusMethodNotAllowed)
}

func (h *Errors) render(c contactsite.Context, code int) error {
	msg := text(c, "error.internal", genericError)
	if code < http.StatusInternalServerError || code == http.StatusServiceUnavailable {
		if st, ok := statusText[code]; ok {
			msg = text(c, st.key, st.fallback)
		} else {
			msg = http.StatusText(code)
		}
	}

	p := newPage(c, h.languages)
	return c.RenderPartial(code, views.ErrorPage(p, code, msg), views.ErrorContent(p, code, msg))
}
