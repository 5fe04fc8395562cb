package mailer

import (
	"context"
	"log/slog"
)

// LogSender writes emails to a logger instead of delivering them.
// Intended for local development.
type LogSender struct {
	logger   *slog.Logger
	withBody bool
}

// NewLogSender creates a LogSender. withBody adds the text part to the record.
func NewLogSender(logger *slog.Logger, withBody bool) *LogSender {
	return &LogSender{logger: logger, withBody: withBody}
}

// Send logs email and always succeeds.
func (s *LogSender) Send(ctx context.Context, email *Email) error {
	attrs := []slog.Attr{
		slog.String("from", email.From),
		slog.Any("to", email.To),
		slog.String("subject", email.Subject),
	}
	if len(email.CC) > 0 {
		attrs = append(attrs, slog.Any("cc", email.CC))
	}
	if len(email.BCC) > 0 {
		attrs = append(attrs, slog.Any("bcc", email.BCC))
	}
	if email.ReplyTo != "" {
		attrs = append(attrs, slog.String("reply_to", email.ReplyTo))
	}
	if s.withBody {
		attrs = append(attrs, slog.String("text", email.Text))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "email not delivered: log transport", attrs...)
	return nil
}
