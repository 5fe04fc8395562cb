package middlewares

import (
	"github.com/dmitrymomot/contactsite/internal"
	"github.com/dmitrymomot/contactsite/pkg/i18n"
)

// LanguageCookie is the cookie and query parameter the default chain reads.
const LanguageCookie = "lang"

type i18nConfig struct {
	namespace string
	extractor *internal.Extractor
}

// I18nOption configures the I18n middleware.
type I18nOption func(*i18nConfig)

// WithI18nNamespace sets the namespace of the request Translator.
func WithI18nNamespace(ns string) I18nOption {
	return func(c *i18nConfig) { c.namespace = ns }
}

// WithI18nExtractor replaces the default language chain.
func WithI18nExtractor(ext internal.Extractor) I18nOption {
	return func(c *i18nConfig) { c.extractor = &ext }
}

// FromAcceptLanguage picks the best Accept-Language match among the
// languages svc knows.
func FromAcceptLanguage(svc *i18n.I18n) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		if h := c.Header("Accept-Language"); h != "" {
			return svc.Match(h), true
		}
		return "", false
	}
}

// Supported drops values from src that svc has no catalog for.
func Supported(svc *i18n.I18n, src internal.ExtractorSource) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		if lang, ok := src(c); ok && svc.Supports(lang) {
			return lang, true
		}
		return "", false
	}
}

// I18n resolves the visitor's language and stores a Translator for it in
// the request context.
//
// The default chain is the lang query parameter, the lang cookie,
// Accept-Language and then the service default. Unsupported query and
// cookie values are skipped.
func I18n(svc *i18n.I18n, opts ...I18nOption) internal.Middleware {
	cfg := i18nConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	ext := internal.NewExtractor(
		Supported(svc, internal.FromQuery(LanguageCookie)),
		Supported(svc, internal.FromCookie(LanguageCookie)),
		FromAcceptLanguage(svc),
	)
	if cfg.extractor != nil {
		ext = *cfg.extractor
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			lang, ok := ext.Extract(c)
			if !ok || lang == "" {
				lang = svc.DefaultLanguage()
			}
			c.Set(internal.TranslatorKey{}, i18n.NewTranslator(svc, lang, cfg.namespace))
			c.Set(internal.LanguageKey{}, lang)
			return next(c)
		}
	}
}

// GetTranslator returns the request Translator, or nil without I18n.
func GetTranslator(c internal.Context) *i18n.Translator {
	return internal.ContextValue[*i18n.Translator](c, internal.TranslatorKey{})
}

// GetLanguage returns the resolved language, or "" without I18n.
func GetLanguage(c internal.Context) string {
	return internal.ContextValue[string](c, internal.LanguageKey{})
}
