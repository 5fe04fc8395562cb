// Package contactsite is the web layer of a single-page site whose contact
// form validates input, optionally checks a CAPTCHA, and emails the
// submission to a fixed list of recipients.
//
// The package re-exports the application core from internal/: an immutable
// [App] built with options, the request [Context], the [Router] handlers
// declare routes on, and the server runtime.
//
// # Quick Start
//
//	app := contactsite.New(
//	    contactsite.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.I18n(translations, middlewares.WithI18nNamespace(views.Namespace)),
//	        middlewares.CSRF(),
//	    ),
//	    contactsite.WithCookieOptions(contactsite.WithCookieSecret(cfg.SecretKey)),
//	    contactsite.WithHandlers(
//	        handlers.NewContact(pipeline, form),
//	        handlers.NewPages(cfg.HTTP.ConfirmationPath, translations.Languages()),
//	    ),
//	    contactsite.WithErrorHandler(handlers.ErrorHandler),
//	)
//
//	if err := app.Run(cfg.HTTP.Addr, contactsite.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] and receive their dependencies through
// constructors:
//
//	func (h *Contact) Routes(r contactsite.Router) {
//	    r.GET("/", h.form)
//	    r.POST("/", h.submit)
//	}
//
// A handler returns an error instead of writing one. Errors reach the
// [ErrorHandler], which logs the cause and renders a generic page; raw
// causes are never shown to visitors.
//
// # Submission pipeline
//
// The domain lives in internal/contact: the form validator, the abuse guard
// (CAPTCHA plus per-IP throttle), the mail notifier and the state machine
// that ties them together. The HTTP handler only maps the pipeline outcome
// to a redirect or a re-rendered form.
//
// # Configuration
//
// internal/config parses the environment once at startup. A missing
// SECRET_KEY is fatal outside APP_ENV=development.
package contactsite
