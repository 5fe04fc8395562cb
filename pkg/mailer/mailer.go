package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	texttemplate "text/template"
)

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams describes a templated email.
type SendParams struct {
	Data        any
	Headers     map[string]string
	Tags        Tags
	Template    string
	Subject     string // overrides the template subject
	Layout      string // overrides Config.DefaultLayout
	From        string // overrides Config.Sender()
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Send renders params.Template and delivers it.
// Subject resolution: params.Subject, then the template's Subject front
// matter, then Config.FallbackSubject. The subject is itself a template
// executed with params.Data, and Config.SubjectPrefix is prepended.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if len(params.To) == 0 {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(ctx, layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if s, ok := result.Metadata["Subject"].(string); ok {
			subject = s
		} else {
			subject = m.config.FallbackSubject
		}
	}

	subject, err = executeSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}
	if m.config.SubjectPrefix != "" {
		subject = strings.TrimSpace(m.config.SubjectPrefix) + " " + subject
	}

	from := params.From
	if from == "" {
		from = m.config.Sender()
	}

	return m.SendRaw(ctx, &Email{
		To:          params.To,
		CC:          params.CC,
		BCC:         params.BCC,
		From:        from,
		ReplyTo:     params.ReplyTo,
		Subject:     subject,
		HTML:        result.HTML,
		Text:        result.Text,
		Headers:     params.Headers,
		Tags:        params.Tags,
		Attachments: params.Attachments,
	})
}

// SendRaw delivers a prepared email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// executeSubject runs the subject as a text template. Newlines are
// collapsed so user data cannot inject headers.
func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.Join(strings.Fields(buf.String()), " "), nil
}
