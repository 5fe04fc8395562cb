package i18n

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultLang is the fallback language when none is configured.
const DefaultLang = "en"

// catalog maps "namespace:dotted.key" to a message for one language.
type catalog map[string]string

// I18n is a read-only set of catalogs. It is safe for concurrent use once
// New returns.
type I18n struct {
	catalogs    map[string]catalog
	languages   []string
	defaultLang string
	onMissing   func(lang, namespace, key string)
}

// Option configures New.
type Option func(*I18n) error

// New applies opts and orders the languages default first, then
// alphabetically.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{catalogs: map[string]catalog{}, defaultLang: DefaultLang}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("i18n: apply option: %w", err)
		}
	}

	rest := slices.DeleteFunc(slices.Clone(i.languages), func(l string) bool { return l == i.defaultLang })
	slices.Sort(rest)
	i.languages = append([]string{i.defaultLang}, slices.Compact(rest)...)
	return i, nil
}

// WithDefaultLanguage sets the last-resort language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages declares languages that may have no catalog yet.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		for _, l := range langs {
			if l != "" {
				i.languages = append(i.languages, l)
			}
		}
		return nil
	}
}

// WithTranslations adds a nested message map for lang and namespace.
func WithTranslations(lang, namespace string, messages map[string]any) Option {
	return func(i *I18n) error {
		switch {
		case lang == "":
			return ErrEmptyLanguage
		case namespace == "":
			return ErrEmptyNamespace
		}
		i.add(lang, namespace, messages)
		return nil
	}
}

// WithMissingKeyHandler is called when a key is missing from every
// fallback language.
func WithMissingKeyHandler(fn func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.onMissing = fn
		return nil
	}
}

// T looks key up in lang, then its base language ("fi" for "fi-FI"), then
// the default language, and fills placeholders. It returns key when no
// catalog has it.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	if msg, ok := i.lookup(lang, namespace, key); ok {
		return ReplacePlaceholders(msg, merge(placeholders...))
	}
	if i.onMissing != nil {
		i.onMissing(lang, namespace, key)
	}
	return key
}

// Has reports whether T would find key.
func (i *I18n) Has(lang, namespace, key string) bool {
	_, ok := i.lookup(lang, namespace, key)
	return ok
}

// Languages returns the known languages, default first.
func (i *I18n) Languages() []string { return slices.Clone(i.languages) }

// DefaultLanguage returns the last-resort language.
func (i *I18n) DefaultLanguage() string { return i.defaultLang }

// Supports reports whether lang is a known language.
func (i *I18n) Supports(lang string) bool { return slices.Contains(i.languages, lang) }

func (i *I18n) lookup(lang, namespace, key string) (string, bool) {
	id := namespace + ":" + key
	base, _, _ := strings.Cut(strings.ReplaceAll(lang, "_", "-"), "-")
	for _, l := range []string{lang, base, i.defaultLang} {
		if msg, ok := i.catalogs[l][id]; ok {
			return msg, true
		}
	}
	return "", false
}

func (i *I18n) add(lang, namespace string, messages map[string]any) {
	c, ok := i.catalogs[lang]
	if !ok {
		c = catalog{}
		i.catalogs[lang] = c
		i.languages = append(i.languages, lang)
	}
	flatten(c, namespace+":", messages)
}

// flatten writes nested maps as dotted keys under prefix.
func flatten(dst catalog, prefix string, messages map[string]any) {
	for k, v := range messages {
		switch v := v.(type) {
		case string:
			dst[prefix+k] = v
		case map[string]any:
			flatten(dst, prefix+k+".", v)
		case map[string]string:
			for sk, sv := range v {
				dst[prefix+k+"."+sk] = sv
			}
		default:
			dst[prefix+k] = fmt.Sprint(v)
		}
	}
}
