package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the level and the extra sinks.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	File   string `env:"LOG_FILE"` // JSON copy of every record
	Sentry SentryConfig
}

// New returns an info-level JSON logger on stdout.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(WithExtractors(slog.NewJSONHandler(os.Stdout, nil), extractors...))
}

// NewNope returns a logger that drops everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewFromConfig returns a JSON logger on stdout, mirrored to cfg.File and
// to Sentry when configured. A Sentry init failure is logged and skipped.
// The close function flushes Sentry and closes the file.
func NewFromConfig(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	sinks := fanout{slog.NewJSONHandler(os.Stdout, opts)}
	var closers []io.Closer

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Join(ErrOpenLogFile, err)
		}
		sinks = append(sinks, slog.NewJSONHandler(f, opts))
		closers = append(closers, f)
	}

	if cfg.Sentry.DSN != "" {
		h, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			slog.New(sinks[0]).Error("sentry disabled", slog.Any("error", err))
		} else {
			sinks = append(sinks, h)
			closers = append(closers, sentryFlusher{})
		}
	}

	var h slog.Handler = sinks
	if len(sinks) == 1 {
		h = sinks[0]
	}

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}
	return slog.New(WithExtractors(h, extractors...)), closeAll, nil
}

// ParseLevel maps debug, info, warn and error (any case) to a slog.Level.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}
