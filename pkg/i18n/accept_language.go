package i18n

import (
	"golang.org/x/text/language"
)

// maxAcceptLanguageLength caps the header before parsing.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage picks the best entry of available for an
// Accept-Language header. The first available language is the fallback
// for empty, malformed or unmatched headers.
//
//	ParseAcceptLanguage("en-US,en;q=0.9,fi;q=0.8", []string{"fi", "en"}) // "en"
func ParseAcceptLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if header == "" {
		return available[0]
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return available[0]
	}

	supported := make([]language.Tag, 0, len(available))
	for _, a := range available {
		tag, err := language.Parse(a)
		if err != nil {
			tag = language.Und
		}
		supported = append(supported, tag)
	}

	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(available) {
		return available[0]
	}
	return available[idx]
}

// Match resolves an Accept-Language header against the configured languages.
func (i *I18n) Match(header string) string {
	return ParseAcceptLanguage(header, i.languages)
}
