package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/middlewares"
)

func TestPages_ThanksWithoutFlash(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/kiitos", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Palaamme sinulle mahdollisimman pian.")
	assert.NotContains(t, rec.Body.String(), `class="alert`)
}

func TestPages_LanguageSwitch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		referer  string
		location string
	}{
		{"back to referring page", "http://example.com/kiitos", "/kiitos"},
		{"keeps query", "http://example.com/?a=1", "/?a=1"},
		{"no referer", "", "/"},
		{"foreign referer", "https://evil.example/phish", "/"},
		{"protocol relative path", "http://example.com//evil.example/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newSite(t)

			req := httptest.NewRequest(http.MethodGet, "http://example.com/lang/en", nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := s.do(req)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))

			var lang *http.Cookie
			for _, ck := range rec.Result().Cookies() {
				if ck.Name == middlewares.LanguageCookie {
					lang = ck
				}
			}
			require.NotNil(t, lang)
			assert.Equal(t, "en", lang.Value)
		})
	}
}

func TestPages_LanguageCookieSelectsLanguage(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.LanguageCookie, Value: "en"})
	rec := s.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="en">`)
	assert.Contains(t, rec.Body.String(), "Contact us")
}

func TestPages_UnknownLanguage(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/lang/xx", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sivua ei löytynyt.")
	for _, ck := range rec.Result().Cookies() {
		assert.NotEqual(t, middlewares.LanguageCookie, ck.Name)
	}
}
