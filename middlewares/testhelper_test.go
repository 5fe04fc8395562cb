package middlewares_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/contactsite/internal"
	"github.com/dmitrymomot/contactsite/pkg/cookie"
	"github.com/dmitrymomot/contactsite/pkg/htmx"
	"github.com/dmitrymomot/contactsite/pkg/i18n"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testContext struct {
	response http.ResponseWriter
	request  *http.Request
	values   map[any]any
	cookies  *cookie.Manager
	written  bool
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: w,
		request:  r,
		values:   make(map[any]any),
		cookies:  cookie.New(cookie.WithSecret(testSecret)),
	}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(name string) string      { return "" }

func (c *testContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *testContext) FormValues() (url.Values, error) {
	if err := c.request.ParseForm(); err != nil {
		return nil, err
	}
	return c.request.PostForm, nil
}

func (c *testContext) ClientIP() string {
	host, _, _ := strings.Cut(c.request.RemoteAddr, ":")
	return host
}

func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }
func (c *testContext) String(code int, s string) error {
	c.written = true
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}
func (c *testContext) NoContent(code int) error {
	c.written = true
	c.response.WriteHeader(code)
	return nil
}
func (c *testContext) Redirect(code int, url string) error {
	c.written = true
	http.Redirect(c.response, c.request, url, code)
	return nil
}
func (c *testContext) IsHTMX() bool                      { return htmx.IsHTMX(c.request) }
func (c *testContext) Written() bool                     { return c.written }
func (c *testContext) LogDebug(msg string, attrs ...any) {}
func (c *testContext) LogInfo(msg string, attrs ...any)  {}
func (c *testContext) LogWarn(msg string, attrs ...any)  {}
func (c *testContext) LogError(msg string, attrs ...any) {}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func (c *testContext) Render(code int, component internal.Component, opts ...htmx.RenderOption) error {
	c.written = true
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *testContext) RenderPartial(code int, fullPage, partial internal.Component, opts ...htmx.RenderOption) error {
	if htmx.IsHTMX(c.request) {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}

func (c *testContext) Set(key, value any) {
	c.values[key] = value
	// Also store in request context for context extractors
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *testContext) Get(key any) any {
	return c.values[key]
}

func (c *testContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.request, name)
}

func (c *testContext) SetCookie(name, value string, maxAge int) {
	c.cookies.Set(c.response, name, value, maxAge)
}

func (c *testContext) DeleteCookie(name string) {
	c.cookies.Delete(c.response, name)
}

func (c *testContext) CookieSigned(name string) (string, error) {
	return c.cookies.GetSigned(c.request, name)
}

func (c *testContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookies.SetSigned(c.response, name, value, maxAge)
}

func (c *testContext) Flash(key string, dest any) error                        { return nil }
func (c *testContext) SetFlash(key string, value any) error                    { return nil }
func (c *testContext) T(key string, placeholders ...i18n.M) string             { return key }
func (c *testContext) TranslateErrors(errs internal.ValidationErrors) internal.ValidationErrors {
	return errs
}
func (c *testContext) Language() string            { return "" }
func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }
