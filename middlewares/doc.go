// Package middlewares provides HTTP middleware for contactsite applications.
//
// # Request ID
//
// RequestID assigns an ID to each request for tracing. Upstream IDs from
// X-Request-ID style headers are reused when they are short printable
// tokens; otherwise a UUID is generated.
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	app := contactsite.New(
//	    contactsite.WithCustomLogger(log),
//	    contactsite.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics into *PanicError values for the app ErrorHandler.
//
// # Timeout
//
// Timeout bounds request handling and returns *TimeoutError when exceeded.
// Pass GetTimeoutContext(c) to CAPTCHA and mail calls so they stop with it.
//
// # I18n
//
// I18n resolves the visitor's language from ?lang=, the lang cookie and
// Accept-Language, and stores a translator for Context.T:
//
//	middlewares.I18n(svc, middlewares.WithI18nNamespace("site"))
//
// # CSRF
//
// CSRF implements a signed double-submit cookie. Forms render
// GetCSRFToken(c) into a hidden csrf_token field; HTMX requests may send it
// as X-CSRF-Token. It needs a cookie secret (contactsite.WithCookieOptions).
//
// # Recommended Order
//
//	contactsite.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(10*time.Second),
//	    middlewares.I18n(svc, middlewares.WithI18nNamespace("site")),
//	    middlewares.CSRF(),
//	)
//
// with an error handler that maps the typed errors:
//
//	contactsite.WithErrorHandler(func(c contactsite.Context, err error) error {
//	    switch {
//	    case middlewares.IsPanicError(err):
//	        return render(c, http.StatusInternalServerError)
//	    case middlewares.IsTimeoutError(err):
//	        return render(c, http.StatusServiceUnavailable)
//	    }
//	    ...
//	})
package middlewares
