// Package views renders the site pages as templ components backed by
// embedded html/template files.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/contactsite/pkg/i18n"
)

// Namespace is the translation namespace of the site texts.
const Namespace = "site"

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var assetsFS embed.FS

//go:embed locales
var localesFS embed.FS

var pages = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// Assets is the embedded static directory, mounted with WithStaticFiles.
func Assets() fs.FS {
	return assetsFS
}

// Locales returns the translations laid out as {lang}/site.yaml.
func Locales() fs.FS {
	sub, err := fs.Sub(localesFS, "locales")
	if err != nil {
		panic(err)
	}
	return sub
}

// Translate is the signature of Context.T.
type Translate func(key string, placeholders ...i18n.M) string

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-off notice. Key is a translation key so the notice follows
// the visitor's language across the redirect.
type Flash struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

// Page is the data every page template receives.
type Page struct {
	Translate Translate
	Flash     *Flash
	Lang      string
	Path      string
	Languages []string
}

// T translates key, returning the key itself without a translator.
func (p Page) T(key string) string {
	if p.Translate == nil {
		return key
	}
	return p.Translate(key)
}

// FlashText is the translated flash message.
func (p Page) FlashText() string {
	if p.Flash == nil {
		return ""
	}
	return p.T(p.Flash.Key)
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
