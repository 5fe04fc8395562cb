package captcha

import "strings"

// Provider describes a siteverify-compatible CAPTCHA service.
type Provider struct {
	Name      string
	VerifyURL string
	FormField string // field the widget posts the token in
	ScriptURL string // widget script for the page
	WidgetCSS string // class of the widget container
}

// Known providers.
var (
	ReCAPTCHA = Provider{
		Name:      "recaptcha",
		VerifyURL: "https://www.google.com/recaptcha/api/siteverify",
		FormField: "g-recaptcha-response",
		ScriptURL: "https://www.google.com/recaptcha/api.js",
		WidgetCSS: "g-recaptcha",
	}
	HCaptcha = Provider{
		Name:      "hcaptcha",
		VerifyURL: "https://api.hcaptcha.com/siteverify",
		FormField: "h-captcha-response",
		ScriptURL: "https://js.hcaptcha.com/1/api.js",
		WidgetCSS: "h-captcha",
	}
	Turnstile = Provider{
		Name:      "turnstile",
		VerifyURL: "https://challenges.cloudflare.com/turnstile/v0/siteverify",
		FormField: "cf-turnstile-response",
		ScriptURL: "https://challenges.cloudflare.com/turnstile/v0/api.js",
		WidgetCSS: "cf-turnstile",
	}
)

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ReCAPTCHA.Name, "google":
		return ReCAPTCHA, nil
	case HCaptcha.Name:
		return HCaptcha, nil
	case Turnstile.Name, "cloudflare":
		return Turnstile, nil
	default:
		return Provider{}, ErrUnknown
	}
}
