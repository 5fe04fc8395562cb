// Package i18n provides immutable translation catalogs with language
// fallback and Accept-Language negotiation.
//
// Translations are flattened at construction time, so lookups are a single
// map access. A lookup tries the requested language, its base language
// ("en" for "en-GB") and finally the default language, and returns the key
// itself when nothing matches:
//
//	//go:embed translations
//	var translationsFS embed.FS
//
//	sub, _ := fs.Sub(translationsFS, "translations")
//	catalog, err := i18n.New(
//		i18n.WithDefaultLanguage("fi"),
//		i18n.WithLanguages("fi", "en"),
//		i18n.WithYAMLDir(sub),
//	)
//
//	catalog.T("en", "contact", "form.submit")
//	catalog.T("fi", "contact", "validation.max_length", i18n.M{"max": 40})
//
// Placeholders use the {{name}} syntax.
//
// [ParseAcceptLanguage] and [I18n.Match] negotiate a language with
// golang.org/x/text/language, honouring quality values and regional
// variants.
//
// A [Translator] pins language and namespace, and its TranslateMessage
// method plugs into validator.ValidationErrors.Translate.
package i18n
