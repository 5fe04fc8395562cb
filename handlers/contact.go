package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/internal/contact"
	"github.com/dmitrymomot/contactsite/middlewares"
	"github.com/dmitrymomot/contactsite/pkg/htmx"
	"github.com/dmitrymomot/contactsite/views"
)

// RejectedEvent is the HX-Trigger event fired when an HTMX submission is
// re-rendered with errors. Client scripts can listen for it to move focus.
const RejectedEvent = "contact:rejected"

// Processor runs a submission through the contact pipeline.
type Processor interface {
	Process(ctx context.Context, req contact.Request) contact.Outcome
}

// rejectionFlash maps guard and notifier rejections to the notice shown
// above the re-rendered form.
var rejectionFlash = map[contact.Reason]string{
	contact.ReasonInvalidInput:       "flash.invalid",
	contact.ReasonMissingToken:       "flash.verification_failed",
	contact.ReasonVerificationFailed: "flash.verification_failed",
	contact.ReasonThrottled:          "flash.throttled",
	contact.ReasonDeliveryFailed:     "flash.delivery_failed",
	contact.ReasonInProgress:         "flash.in_progress",
}

// Contact serves the landing page form and processes submissions.
type Contact struct {
	pipeline    Processor
	required    func(string) bool
	captcha     *views.Captcha
	confirmPath string
	languages   []string
}

// ContactOption configures the Contact handler.
type ContactOption func(*Contact)

// WithConfirmationPath sets where successful submissions are redirected.
func WithConfirmationPath(path string) ContactOption {
	return func(h *Contact) {
		if path != "" {
			h.confirmPath = path
		}
	}
}

// WithRequiredFields marks the required inputs in the form.
func WithRequiredFields(required func(field string) bool) ContactOption {
	return func(h *Contact) {
		h.required = required
	}
}

// WithCaptchaWidget renders the CAPTCHA widget in the form.
func WithCaptchaWidget(w *views.Captcha) ContactOption {
	return func(h *Contact) {
		h.captcha = w
	}
}

// WithLanguages lists the languages offered in the header.
func WithLanguages(langs ...string) ContactOption {
	return func(h *Contact) {
		h.languages = langs
	}
}

// NewContact creates the contact handler.
func NewContact(p Processor, opts ...ContactOption) *Contact {
	h := &Contact{
		pipeline:    p,
		confirmPath: "/kiitos",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements contactsite.Handler.
func (h *Contact) Routes(r contactsite.Router) {
	r.GET("/", h.show)
	r.POST("/", h.submit)
}

// show renders the empty form.
func (h *Contact) show(c contactsite.Context) error {
	return h.render(c, url.Values{}, nil, nil)
}

// submit runs the pipeline and maps the outcome to a response. Rejections
// re-render the form with HTTP 200; only success redirects.
func (h *Contact) submit(c contactsite.Context) error {
	values, err := c.FormValues()
	if err != nil {
		return c.Error(http.StatusBadRequest, "invalid form data",
			contactsite.WithErrorCode("bad_request"),
			contactsite.WithError(err),
		)
	}

	out := h.pipeline.Process(middlewares.GetTimeoutContext(c), contact.Request{
		Values:   values,
		RemoteIP: c.ClientIP(),
		Language: c.Language(),
	})

	if out.Done() {
		c.LogInfo("contact submission accepted",
			"reference", out.Submission.Reference,
			"duplicate", out.Duplicate,
		)
		if err := c.SetFlash(FlashKey, views.Flash{Kind: views.FlashSuccess, Key: "flash.sent"}); err != nil {
			c.LogWarn("flash not set", "error", err)
		}
		return c.Redirect(http.StatusSeeOther, h.confirmPath)
	}

	key, ok := rejectionFlash[out.Reason]
	if !ok {
		return errors.Join(ErrUnexpectedOutcome, out.Err)
	}

	c.LogInfo("contact submission rejected",
		"reference", out.Submission.Reference,
		"reason", string(out.Reason),
	)
	return h.render(c, values, c.TranslateErrors(out.Errors), &views.Flash{Kind: views.FlashError, Key: key},
		htmx.WithTrigger(RejectedEvent),
		htmx.WithReswap(htmx.SwapOuterHTML),
	)
}

func (h *Contact) render(c contactsite.Context, values url.Values, errs contactsite.ValidationErrors, flash *views.Flash, opts ...htmx.RenderOption) error {
	p := newPage(c, h.languages)
	p.Flash = flash

	f := views.Form{
		Action:    "/",
		Values:    values,
		Errors:    errs,
		Required:  h.required,
		Captcha:   h.captcha,
		CSRFField: middlewares.DefaultCSRFField,
		CSRFToken: middlewares.GetCSRFToken(c),
	}

	return c.RenderPartial(http.StatusOK, views.ContactPage(p, f), views.ContactForm(p, f), opts...)
}
