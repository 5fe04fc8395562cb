// Command contactsite serves the association's landing page and contact form.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrymomot/contactsite"
	"github.com/dmitrymomot/contactsite/handlers"
	"github.com/dmitrymomot/contactsite/internal/config"
	"github.com/dmitrymomot/contactsite/internal/contact"
	"github.com/dmitrymomot/contactsite/middlewares"
	"github.com/dmitrymomot/contactsite/pkg/i18n"
	"github.com/dmitrymomot/contactsite/pkg/logger"
	"github.com/dmitrymomot/contactsite/views"
)

// writeGrace leaves time to send a page rendered right at the request deadline.
const writeGrace = 5 * time.Second

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "contactsite:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := logger.NewFromConfig(cfg.Log,
		middlewares.RequestIDExtractor(),
		contact.ReferenceExtractor(),
	)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if cfg.SecretGenerated {
		log.Warn("SECRET_KEY not set, using a generated development key; signed cookies will not survive restarts")
	}

	translations, err := i18n.New(
		i18n.WithDefaultLanguage(cfg.DefaultLanguage),
		i18n.WithYAMLDir(views.Locales()),
	)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	langs := translations.Languages()

	deps, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	errs := handlers.NewErrors(langs...)

	app := contactsite.New(
		contactsite.WithCustomLogger(log),
		contactsite.WithTrustProxy(cfg.HTTP.TrustProxy),
		contactsite.WithCookieOptions(
			contactsite.WithCookieSecret(cfg.SecretKey),
			contactsite.WithCookieSecure(strings.HasPrefix(cfg.HTTP.BaseURL, "https://")),
		),
		contactsite.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.HTTP.RequestTimeout),
			middlewares.I18n(translations, middlewares.WithI18nNamespace(views.Namespace)),
			middlewares.CSRF(),
		),
		contactsite.WithStaticFiles("/static/", views.Assets(), "static"),
		contactsite.WithHealthChecks(deps.readiness...),
		contactsite.WithErrorHandler(errs.Handle),
		contactsite.WithNotFoundHandler(errs.NotFound),
		contactsite.WithMethodNotAllowedHandler(errs.MethodNotAllowed),
		contactsite.WithHandlers(
			handlers.NewContact(deps.pipeline,
				handlers.WithConfirmationPath(cfg.HTTP.ConfirmationPath),
				handlers.WithRequiredFields(deps.validator.Required),
				handlers.WithCaptchaWidget(deps.widget),
				handlers.WithLanguages(langs...),
			),
			handlers.NewPages(cfg.HTTP.ConfirmationPath, langs...),
		),
	)

	log.Info("contact site configured",
		slog.String("env", cfg.Env),
		slog.String("mail_transport", cfg.Mail.Transport),
		slog.Bool("captcha", cfg.Captcha.Enabled()),
		slog.Bool("redis", cfg.RedisURL != ""),
		slog.Any("languages", langs),
	)

	runOpts := []contactsite.RunOption{
		contactsite.Logger(log),
		contactsite.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		contactsite.WriteTimeout(cfg.HTTP.RequestTimeout + writeGrace),
	}
	for _, hook := range deps.shutdown {
		runOpts = append(runOpts, contactsite.ShutdownHook(hook))
	}

	return app.Run(cfg.HTTP.Addr, runOpts...)
}
