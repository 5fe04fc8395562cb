// Package handlers holds the HTTP surface of the site: the contact form,
// the confirmation page, the language switch and the error pages.
package handlers

import (
	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/views"
)

// FlashKey is the flash cookie carrying the notice for the next page.
const FlashKey = "notice"

// newPage builds the data shared by every page.
func newPage(c contactsite.Context, languages []string) views.Page {
	return views.Page{
		Translate: c.T,
		Lang:      c.Language(),
		Path:      c.Request().URL.Path,
		Languages: languages,
	}
}

// text translates key, falling back when no translation is available.
func text(c contactsite.Context, key, fallback string) string {
	if s := c.T(key); s != key {
		return s
	}
	return fallback
}
