// Package smtp delivers mailer.Email values through an SMTP relay using
// github.com/wneessen/go-mail.
package smtp

import (
	"bytes"
	"context"
	"errors"

	mail "github.com/wneessen/go-mail"

	"github.com/dmitrymomot/contactsite/pkg/mailer"
)

// Sender implements mailer.Sender. Each Send dials, delivers one message
// and closes the connection.
type Sender struct {
	client *mail.Client
}

// New validates cfg and prepares a client. No connection is made.
func New(cfg Config) (*Sender, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}

	var opts []mail.Option
	switch cfg.Security {
	case SecuritySSL, "":
		opts = append(opts, mail.WithSSL())
	case SecurityStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case SecurityNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, ErrInvalidSecurity
	}
	opts = append(opts, mail.WithPort(cfg.EffectivePort()))
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &Sender{client: client}, nil
}

// Send delivers email in a single SMTP session.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := buildMessage(email)
	if err != nil {
		return errors.Join(ErrBuildMessage, err)
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Join(ErrDeliver, err)
	}
	return nil
}

func buildMessage(email *mailer.Email) (*mail.Msg, error) {
	if email.From == "" {
		return nil, mailer.ErrNoSender
	}

	m := mail.NewMsg()
	if err := m.From(email.From); err != nil {
		return nil, err
	}
	if err := m.To(email.To...); err != nil {
		return nil, err
	}
	if len(email.CC) > 0 {
		if err := m.Cc(email.CC...); err != nil {
			return nil, err
		}
	}
	if len(email.BCC) > 0 {
		if err := m.Bcc(email.BCC...); err != nil {
			return nil, err
		}
	}
	if email.ReplyTo != "" {
		if err := m.ReplyTo(email.ReplyTo); err != nil {
			return nil, err
		}
	}

	m.Subject(email.Subject)
	m.SetDate()
	m.SetMessageID()
	for k, v := range email.Headers {
		m.SetGenHeader(mail.Header(k), v)
	}

	switch {
	case email.Text != "" && email.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, email.Text)
		m.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	case email.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, email.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	for _, a := range email.Attachments {
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Content)); err != nil {
			return nil, err
		}
	}

	return m, nil
}
