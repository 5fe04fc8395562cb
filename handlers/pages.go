package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/middlewares"
	"github.com/dmitrymomot/contactsite/pkg/cookie"
	"github.com/dmitrymomot/contactsite/views"
)

// languageCookieMaxAge keeps the language choice for a year.
const languageCookieMaxAge = 365 * 24 * 60 * 60

// Pages serves the confirmation page and the language switch.
type Pages struct {
	confirmPath string
	languages   []string
}

// NewPages creates the pages handler.
func NewPages(confirmPath string, languages ...string) *Pages {
	if confirmPath == "" {
		confirmPath = "/kiitos"
	}
	return &Pages{confirmPath: confirmPath, languages: languages}
}

// Routes implements contactsite.Handler.
func (h *Pages) Routes(r contactsite.Router) {
	r.GET(h.confirmPath, h.thanks)
	r.GET("/lang/{code}", h.language)
}

// thanks renders the confirmation page with the pending flash, if any.
func (h *Pages) thanks(c contactsite.Context) error {
	p := newPage(c, h.languages)

	var flash views.Flash
	switch err := c.Flash(FlashKey, &flash); {
	case err == nil:
		p.Flash = &flash
	case errors.Is(err, cookie.ErrNotFound):
	default:
		c.LogWarn("flash unreadable", "error", err)
	}

	return c.RenderPartial(http.StatusOK, views.ThanksPage(p), views.ThanksPage(p))
}

// language stores the choice and sends the visitor back to the page they
// came from on this host.
func (h *Pages) language(c contactsite.Context) error {
	code := c.Param("code")
	if !slices.Contains(h.languages, code) {
		return c.Error(http.StatusNotFound, "unknown language", contactsite.WithErrorCode("not_found"))
	}

	c.SetCookie(middlewares.LanguageCookie, code, languageCookieMaxAge)
	return c.Redirect(http.StatusSeeOther, backPath(c.Request()))
}

// backPath returns the Referer path when it points at the same host.
func backPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || ref.Path == "" || ref.Path[0] != '/' {
		return "/"
	}
	// "//host" and "/\host" are protocol-relative to browsers.
	if len(ref.Path) > 1 && (ref.Path[1] == '/' || ref.Path[1] == '\\') {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
