package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/contactsite/pkg/cache"
	"github.com/dmitrymomot/contactsite/pkg/sanitizer"
)

// Renderer turns markdown templates with YAML front matter into an HTML
// part (wrapped in a layout) and a plain-text part. Line breaks inside a
// paragraph are kept as <br>.
//
// Templates may call {{md .Value}} on untrusted input. In the HTML pass md
// escapes markdown syntax; in the text pass it returns the value unchanged.
type Renderer struct {
	fs          fs.FS
	md          goldmark.Markdown
	templates   cache.Cache[*parsedTemplate]
	layouts     cache.Cache[*template.Template]
	templateDir string
	layoutDir   string
}

type parsedTemplate struct {
	metadata map[string]any
	html     *texttemplate.Template
	text     *texttemplate.Template
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir string // default "."
	LayoutDir   string // default "layouts"
}

// NewRenderer creates a renderer with the default directories.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a renderer. Parsed templates and layouts are
// kept for the life of the renderer.
func NewRendererWithConfig(filesystem fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}

	return &Renderer{
		fs:          filesystem,
		templateDir: cfg.TemplateDir,
		layoutDir:   cfg.LayoutDir,
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		templates: cache.NewMemory[*parsedTemplate](cache.WithCleanupInterval(0)),
		layouts:   cache.NewMemory[*template.Template](cache.WithCleanupInterval(0)),
	}
}

// RenderResult holds both bodies and the template front matter.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string
}

// Render executes templateName with data and wraps the HTML in layout.
func (r *Renderer) Render(ctx context.Context, layout, templateName string, data any) (*RenderResult, error) {
	tpl, err := cache.GetOrSet(ctx, r.templates, templateName, func(context.Context) (*parsedTemplate, time.Duration, error) {
		t, err := r.loadTemplate(templateName)
		return t, -1, err
	})
	if err != nil {
		return nil, err
	}

	var text bytes.Buffer
	if err := tpl.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %w", ErrRenderFailed, templateName, err)
	}

	var markdown bytes.Buffer
	if err := tpl.html.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %w", ErrRenderFailed, templateName, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %w", ErrRenderFailed, err)
	}

	layoutTmpl, err := cache.GetOrSet(ctx, r.layouts, layout, func(context.Context) (*template.Template, time.Duration, error) {
		t, err := r.loadLayout(layout)
		return t, -1, err
	})
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := layoutTmpl.Execute(&out, map[string]any{
		"Content":  template.HTML(sanitizer.HTML(body.String())), //nolint:gosec // UGC policy applied
		"Metadata": tpl.metadata,
	}); err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %w", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		HTML:     out.String(),
		Text:     text.String(),
		Metadata: tpl.metadata,
	}, nil
}

func (r *Renderer) loadTemplate(name string) (*parsedTemplate, error) {
	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}

	htmlTmpl, err := texttemplate.New(name).
		Funcs(texttemplate.FuncMap{"md": EscapeMarkdown}).
		Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrRenderFailed, name, err)
	}

	textTmpl, err := htmlTmpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("%w: clone %s: %w", ErrRenderFailed, name, err)
	}
	textTmpl.Funcs(texttemplate.FuncMap{"md": plain})

	return &parsedTemplate{metadata: parsed.Metadata, html: htmlTmpl, text: textTmpl}, nil
}

func (r *Renderer) loadLayout(name string) (*template.Template, error) {
	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLayoutNotFound, name, err)
	}

	t, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %w", ErrRenderFailed, name, err)
	}
	return t, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`,
	`#`, `\#`, `|`, `\|`, `!`, `\!`, `~`, `\~`,
	`-`, `\-`, `+`, `\+`, `=`, `\=`, `&`, `\&`,
)

// EscapeMarkdown backslash-escapes markdown punctuation so the value
// renders as literal text.
func EscapeMarkdown(v any) string {
	return markdownEscaper.Replace(fmt.Sprint(v))
}

func plain(v any) string {
	return fmt.Sprint(v)
}
