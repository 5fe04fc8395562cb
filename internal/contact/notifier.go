package contact

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/contactsite/pkg/logger"
	"github.com/dmitrymomot/contactsite/pkg/mailer"
)

// SubmissionTemplate is the email template used for notifications.
const SubmissionTemplate = "submission.md"

//go:embed templates
var templatesFS embed.FS

// Templates returns the embedded email templates, laid out for
// mailer.NewRenderer (layouts under layouts/).
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Delivery is the notifier result. A nil Err means delivered.
type Delivery struct {
	Err error
}

// Delivered returns a successful Delivery.
func Delivered() Delivery {
	return Delivery{}
}

// DeliveryFailed returns a failed Delivery carrying the transport cause.
func DeliveryFailed(cause error) Delivery {
	return Delivery{Err: errors.Join(ErrDeliveryFailed, cause)}
}

// OK reports whether the message was handed to the transport.
func (d Delivery) OK() bool {
	return d.Err == nil
}

// Notifier delivers a validated submission.
type Notifier interface {
	Notify(ctx context.Context, s Submission) Delivery
}

// MailNotifier emails submissions to a fixed recipient list.
type MailNotifier struct {
	mailer  *mailer.Mailer
	logger  *slog.Logger
	to      []string
	cc      []string
	bcc     []string
	timeout time.Duration
}

// NotifierOption configures a MailNotifier.
type NotifierOption func(*MailNotifier)

// WithCopies adds CC and BCC recipients.
func WithCopies(cc, bcc []string) NotifierOption {
	return func(n *MailNotifier) {
		n.cc = cc
		n.bcc = bcc
	}
}

// WithSendTimeout bounds a single transport call.
func WithSendTimeout(d time.Duration) NotifierOption {
	return func(n *MailNotifier) {
		n.timeout = d
	}
}

// WithNotifierLogger sets the logger for delivery results.
func WithNotifierLogger(l *slog.Logger) NotifierOption {
	return func(n *MailNotifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewMailNotifier creates a MailNotifier sending to recipients.
func NewMailNotifier(m *mailer.Mailer, recipients []string, opts ...NotifierOption) (*MailNotifier, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	n := &MailNotifier{
		mailer: m,
		logger: logger.NewNope(),
		to:     recipients,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Notify makes exactly one transport call. Failures are logged with their
// cause and returned as DeliveryFailed; there is no retry.
func (n *MailNotifier) Notify(ctx context.Context, s Submission) Delivery {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	params := mailer.SendParams{
		Template: SubmissionTemplate,
		Data:     s,
		To:       n.to,
		CC:       n.cc,
		BCC:      n.bcc,
		ReplyTo:  s.Email,
		Tags:     mailer.Tags{"category": "contact"},
	}
	if s.Reference != "" {
		params.Headers = map[string]string{"X-Contact-Reference": s.Reference}
	}

	if err := n.mailer.Send(ctx, params); err != nil {
		n.logger.ErrorContext(ctx, "contact notification failed",
			slog.String("reference", s.Reference),
			slog.String("error", err.Error()),
		)
		return DeliveryFailed(err)
	}

	n.logger.InfoContext(ctx, "contact notification sent", slog.String("reference", s.Reference))
	return Delivered()
}
