package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/internal/config"
	"github.com/dmitrymomot/contactsite/internal/contact"
	"github.com/dmitrymomot/contactsite/pkg/cache"
	"github.com/dmitrymomot/contactsite/pkg/captcha"
	"github.com/dmitrymomot/contactsite/pkg/mailer"
	"github.com/dmitrymomot/contactsite/pkg/mailer/resend"
	"github.com/dmitrymomot/contactsite/pkg/mailer/ses"
	"github.com/dmitrymomot/contactsite/pkg/mailer/smtp"
	"github.com/dmitrymomot/contactsite/pkg/ratelimit"
	"github.com/dmitrymomot/contactsite/pkg/redis"
	"github.com/dmitrymomot/contactsite/views"
)

// memoryStoreKeys bounds the in-process throttle store.
const memoryStoreKeys = 10_000

// deps holds the wired pipeline and the resources it owns.
type deps struct {
	validator *contact.Validator
	pipeline  *contact.Pipeline
	widget    *views.Captcha
	readiness []contactsite.HealthOption
	shutdown  []func(context.Context) error
	closers   []io.Closer
}

func (d *deps) close() {
	for _, c := range d.closers {
		_ = c.Close()
	}
}

// wire builds the submission pipeline from cfg. Redis backs the throttle
// and duplicate suppression when REDIS_URL is set; otherwise both live in
// process memory.
func wire(ctx context.Context, cfg config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{validator: contact.NewValidator(cfg.Contact.RequiredFields...)}

	var client goredis.UniversalClient
	if cfg.RedisURL != "" {
		var err error
		client, err = redis.Open(ctx, cfg.RedisURL, redis.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		d.closers = append(d.closers, client)
		d.readiness = append(d.readiness, contactsite.WithReadinessCheck("redis", redis.Healthcheck(client)))
		d.shutdown = append(d.shutdown, redis.Shutdown(client))
	}

	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		d.close()
		return nil, err
	}

	opts := []contact.PipelineOption{contact.WithPipelineLogger(log)}

	guard, widget, err := newGuard(cfg, client, log, d)
	if err != nil {
		d.close()
		return nil, err
	}
	if guard.Enabled() {
		field := ""
		if widget != nil {
			field = widget.Provider.FormField
		}
		opts = append(opts, contact.WithGuard(guard, field))
	}
	d.widget = widget

	if cfg.Contact.DedupeWindow > 0 {
		var store cache.Cache[string]
		if client != nil {
			store = cache.NewRedis[string](client, nil, cache.WithPrefix("contact:dedupe"))
		} else {
			mem := cache.NewMemory[string]()
			d.closers = append(d.closers, mem)
			store = mem
		}
		opts = append(opts, contact.WithDedupe(contact.NewDedupe(store, cfg.Contact.DedupeWindow,
			contact.WithPendingTTL(cfg.HTTP.RequestTimeout),
		)))
	}

	d.pipeline = contact.NewPipeline(d.validator, notifier, opts...)
	return d, nil
}

// newNotifier selects the mail transport named by MAIL_TRANSPORT.
func newNotifier(ctx context.Context, cfg config.Config, log *slog.Logger) (*contact.MailNotifier, error) {
	var (
		sender mailer.Sender
		err    error
	)
	switch cfg.Mail.Transport {
	case config.TransportSMTP:
		sender, err = smtp.New(cfg.Mail.SMTP)
	case config.TransportResend:
		sender, err = resend.New(cfg.Mail.Resend)
	case config.TransportSES:
		sender, err = ses.New(ctx, cfg.Mail.SES)
	case config.TransportLog:
		sender = mailer.NewLogSender(log, true)
	default:
		err = fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
	if err != nil {
		return nil, fmt.Errorf("mail transport: %w", err)
	}

	m := mailer.New(sender, mailer.NewRenderer(contact.Templates()), cfg.Mail.Mailer)
	return contact.NewMailNotifier(m, cfg.Mail.To,
		contact.WithCopies(cfg.Mail.CC, cfg.Mail.BCC),
		contact.WithSendTimeout(cfg.Mail.Timeout),
		contact.WithNotifierLogger(log),
	)
}

// newGuard builds the abuse guard. The returned widget is nil when no
// CAPTCHA provider is configured.
func newGuard(cfg config.Config, client goredis.UniversalClient, log *slog.Logger, d *deps) (*contact.AbuseGuard, *views.Captcha, error) {
	opts := []contact.GuardOption{contact.WithGuardLogger(log)}

	var widget *views.Captcha
	if cfg.Captcha.Enabled() {
		provider, err := captcha.Lookup(cfg.Captcha.Provider)
		if err != nil {
			return nil, nil, fmt.Errorf("captcha provider %q: %w", cfg.Captcha.Provider, err)
		}
		verifier, err := captcha.New(provider, cfg.Captcha.SecretKey,
			captcha.WithTimeout(cfg.Captcha.Timeout),
			captcha.WithMinScore(cfg.Captcha.MinScore),
			captcha.WithLogger(log),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("captcha: %w", err)
		}
		opts = append(opts, contact.WithCaptcha(verifier))
		widget = &views.Captcha{Provider: provider, SiteKey: cfg.Captcha.SiteKey}
	}

	if cfg.Contact.RateLimit > 0 {
		var store ratelimit.Store
		if client != nil {
			store = ratelimit.NewRedisStore(client, "ratelimit:")
		} else {
			mem := ratelimit.NewMemoryStore(memoryStoreKeys)
			d.closers = append(d.closers, mem)
			store = mem
		}
		limiter, err := ratelimit.New(store, cfg.Contact.RateLimit, cfg.Contact.RateWindow,
			ratelimit.WithPrefix("contact:"),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("rate limit: %w", err)
		}
		opts = append(opts, contact.WithThrottle(limiter))
	}

	return contact.NewGuard(opts...), widget, nil
}
