package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/handlers"
	"github.com/dmitrymomot/contactsite/internal/contact"
	"github.com/dmitrymomot/contactsite/middlewares"
	"github.com/dmitrymomot/contactsite/pkg/cache"
	"github.com/dmitrymomot/contactsite/pkg/captcha"
	"github.com/dmitrymomot/contactsite/pkg/i18n"
	"github.com/dmitrymomot/contactsite/pkg/mailer"
	"github.com/dmitrymomot/contactsite/views"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email *mailer.Email) error {
	return m.Called(ctx, email).Error(0)
}

type site struct {
	app    *contactsite.App
	sender *mockSender
}

type siteOption func(*siteConfig)

type siteConfig struct {
	guard          contact.Guard
	tokenKey       string
	widget         *views.Captcha
	extra          []contactsite.Handler
	requestTimeout time.Duration
	sendTimeout    time.Duration
	dedupe         *contact.Dedupe
}

func withGuard(g contact.Guard, tokenKey string, widget *views.Captcha) siteOption {
	return func(c *siteConfig) {
		c.guard = g
		c.tokenKey = tokenKey
		c.widget = widget
	}
}

func withTimeouts(request, send time.Duration) siteOption {
	return func(c *siteConfig) {
		c.requestTimeout = request
		c.sendTimeout = send
	}
}

func withDedupe(d *contact.Dedupe) siteOption {
	return func(c *siteConfig) {
		c.dedupe = d
	}
}

func withHandler(h contactsite.Handler) siteOption {
	return func(c *siteConfig) {
		c.extra = append(c.extra, h)
	}
}

func newSite(t *testing.T, opts ...siteOption) *site {
	t.Helper()
	cfg := &siteConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	translations, err := i18n.New(i18n.WithDefaultLanguage("fi"), i18n.WithYAMLDir(views.Locales()))
	require.NoError(t, err)

	sender := &mockSender{}
	m := mailer.New(sender, mailer.NewRenderer(contact.Templates()), mailer.Config{
		From:          "noreply@example.fi",
		DefaultLayout: "base.html",
	})
	var nopts []contact.NotifierOption
	if cfg.sendTimeout > 0 {
		nopts = append(nopts, contact.WithSendTimeout(cfg.sendTimeout))
	}
	notifier, err := contact.NewMailNotifier(m, []string{"office@example.fi"}, nopts...)
	require.NoError(t, err)

	validator := contact.NewValidator()
	var popts []contact.PipelineOption
	if cfg.guard != nil {
		popts = append(popts, contact.WithGuard(cfg.guard, cfg.tokenKey))
	}
	if cfg.dedupe != nil {
		popts = append(popts, contact.WithDedupe(cfg.dedupe))
	}
	pipeline := contact.NewPipeline(validator, notifier, popts...)

	langs := translations.Languages()
	errs := handlers.NewErrors(langs...)
	hs := []contactsite.Handler{
		handlers.NewContact(pipeline,
			handlers.WithRequiredFields(validator.Required),
			handlers.WithCaptchaWidget(cfg.widget),
			handlers.WithLanguages(langs...),
		),
		handlers.NewPages("/kiitos", langs...),
	}

	mws := []contactsite.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverDisablePrintStack()),
	}
	if cfg.requestTimeout > 0 {
		mws = append(mws, middlewares.Timeout(cfg.requestTimeout))
	}
	mws = append(mws,
		middlewares.I18n(translations, middlewares.WithI18nNamespace(views.Namespace)),
		middlewares.CSRF(),
	)

	app := contactsite.New(
		contactsite.WithCookieOptions(contactsite.WithCookieSecret(testSecret)),
		contactsite.WithMiddleware(mws...),
		contactsite.WithHandlers(append(hs, cfg.extra...)...),
		contactsite.WithErrorHandler(errs.Handle),
		contactsite.WithNotFoundHandler(errs.NotFound),
		contactsite.WithMethodNotAllowedHandler(errs.MethodNotAllowed),
	)
	return &site{app: app, sender: sender}
}

func (s *site) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

// form fetches the page and returns the CSRF cookie and token.
func (s *site) form(t *testing.T) ([]*http.Cookie, string) {
	t.Helper()
	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	m := csrfPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "form carries a csrf token")
	return rec.Result().Cookies(), m[1]
}

func (s *site) post(t *testing.T, values url.Values, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	cookies, token := s.form(t)
	values.Set(middlewares.DefaultCSRFField, token)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.7:40000"
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return s.do(req)
}

func submission(name, email, message string) url.Values {
	return url.Values{"name": {name}, "email": {email}, "message": {message}}
}

func TestContact_Show(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="fi">`)
	assert.Contains(t, body, "Ota yhteyttä")
	assert.Contains(t, body, `id="contact-form"`)
	assert.NotContains(t, body, "data-sitekey")
}

func TestContact_DeliveredRedirects(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	s.sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return strings.Contains(e.Text, "Ada") &&
			strings.Contains(e.Text, "ada@example.com") &&
			strings.Contains(e.Text, "Hello") &&
			e.ReplyTo == "ada@example.com"
	})).Return(nil).Once()

	rec := s.post(t, submission("Ada", "ada@example.com", "Hello"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/kiitos", rec.Header().Get("Location"))
	s.sender.AssertExpectations(t)

	// The confirmation page shows the success flash once.
	req := httptest.NewRequest(http.MethodGet, "/kiitos", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	thanks := s.do(req)
	require.Equal(t, http.StatusOK, thanks.Code)
	assert.Contains(t, thanks.Body.String(), "Viestisi lähetettiin onnistuneesti!")
	assert.Contains(t, thanks.Body.String(), "Kiitos yhteydenotosta!")
}

func TestContact_MissingNameRerenders(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	rec := s.post(t, submission("", "ada@example.com", "Hello"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Tämä kenttä on pakollinen.")
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.Contains(t, body, "Hello</textarea>")
	s.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContact_InvalidEmailFlagged(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	rec := s.post(t, submission("Ada", "not-an-email", "Hello"), "Accept-Language", "en")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Enter a valid email address.")
	assert.Contains(t, body, "Please check the form fields.")
	s.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContact_MissingCaptchaTokenBlocksSend(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	verifier, err := captcha.New(captcha.ReCAPTCHA, "secret", captcha.WithVerifyURL(srv.URL))
	require.NoError(t, err)
	guard := contact.NewGuard(contact.WithCaptcha(verifier))

	s := newSite(t, withGuard(guard, captcha.ReCAPTCHA.FormField,
		&views.Captcha{Provider: captcha.ReCAPTCHA, SiteKey: "site-key"}))

	rec := s.post(t, submission("Ada", "ada@example.com", "Hello"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Varmistus epäonnistui.")
	assert.Contains(t, body, `class="g-recaptcha" data-sitekey="site-key"`)
	assert.Zero(t, calls.Load())
	s.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContact_DeliveryFailureShowsRetry(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	s.sender.On("Send", mock.Anything, mock.Anything).
		Return(errors.New("dial tcp 10.0.0.5:465: connection refused")).Once()

	rec := s.post(t, submission("Ada", "ada@example.com", "Hello"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Viestin toimitus ei onnistunut, kokeile uudestaan hetken kuluttua.")
	assert.NotContains(t, body, "connection refused")
	assert.NotContains(t, body, "10.0.0.5")
	assert.Contains(t, body, `value="Ada"`)
	s.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContact_IdenticalSubmissionInFlight(t *testing.T) {
	t.Parallel()

	mem := cache.NewMemory[string]()
	t.Cleanup(func() { _ = mem.Close() })
	dedupe := contact.NewDedupe(mem, time.Minute)

	claim, err := dedupe.Reserve(context.Background(), contact.Submission{Email: "ada@example.com", Message: "Hello"})
	require.NoError(t, err)
	require.Equal(t, contact.ClaimOwned, claim)

	s := newSite(t, withDedupe(dedupe))
	rec := s.post(t, submission("Ada", "ada@example.com", "Hello"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Viestiäsi lähetetään vielä. Odota hetki ennen kuin lähetät sen uudelleen.")
	assert.NotContains(t, body, "Viestisi lähetettiin onnistuneesti!")
	assert.Contains(t, body, `value="Ada"`)
	s.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

type slowGuard struct {
	delay time.Duration
}

func (g slowGuard) Check(ctx context.Context, _ contact.Attempt) contact.Verdict {
	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
	}
	return contact.Accept()
}

func TestContact_TransportHangingPastRequestDeadline(t *testing.T) {
	t.Parallel()

	// Guard and send budgets together reach the request deadline, so both
	// deadlines fire at about the same moment.
	for i := range 5 {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			t.Parallel()

			s := newSite(t,
				withGuard(slowGuard{delay: 150 * time.Millisecond}, "token", nil),
				withTimeouts(300*time.Millisecond, 150*time.Millisecond),
			)
			s.sender.On("Send", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					<-args.Get(0).(context.Context).Done()
				}).
				Return(context.DeadlineExceeded).Once()

			rec := s.post(t, submission("Ada", "ada@example.com", "Hello"))

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "Viestin toimitus ei onnistunut, kokeile uudestaan hetken kuluttua.")
			assert.Equal(t, 1, strings.Count(body, `id="contact-form"`))
		})
	}
}

func TestContact_HTMXGetsPartial(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	rec := s.post(t, submission("", "", ""), "HX-Request", "true")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `id="contact-form"`)
	assert.Equal(t, handlers.RejectedEvent, rec.Header().Get("HX-Trigger"))
	assert.Equal(t, "outerHTML", rec.Header().Get("HX-Reswap"))
}

func TestContact_HTMXRedirect(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	s.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	rec := s.post(t, submission("Ada", "ada@example.com", "Hello"), "HX-Request", "true")

	assert.Equal(t, "/kiitos", rec.Header().Get("HX-Redirect"))
}

func TestContact_RejectsMissingCSRF(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submission("Ada", "ada@example.com", "Hello").Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lomakkeen istunto vanheni.")
	s.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
