// Package internal provides the HTTP core of the contact site.
//
// This package is internal. Import "github.com/dmitrymomot/contactsite"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the chi router, error handling and the server lifecycle
//   - Context: request/response access with form, cookie, flash and i18n helpers
//   - Router: what handlers use to declare routes
//   - Handler: a type that declares routes on a Router
//   - HandlerFunc: a route handler that returns an error
//   - Middleware: wraps a HandlerFunc
//   - ErrorHandler: renders errors returned from handlers
//
// # Context as context.Context
//
// Context embeds the request context, so it can be passed straight to the
// captcha verifier, the mailer or Redis:
//
//	func (h *Contact) submit(c internal.Context) error {
//	    values, err := c.FormValues()
//	    if err != nil {
//	        return c.Error(http.StatusBadRequest, "invalid form")
//	    }
//	    outcome := h.pipeline.Process(c, values, c.ClientIP())
//	    ...
//	}
//
// # Application Structure
//
//	app := internal.New(
//	    internal.WithHandlers(contactHandler, pageHandler),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithStaticFiles("/static/", assets, "static"),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("redis", redis.Healthcheck(client))),
//	    internal.WithTrustProxy(cfg.TrustProxy),
//	)
//
// Global middleware runs in the order it was listed, then route middleware.
//
// # Client address
//
// ClientIP returns the host part of RemoteAddr. Forwarding headers are only
// honoured when WithTrustProxy(true) is set, in which case chi's RealIP
// middleware rewrites RemoteAddr before anything else runs.
//
// # Error Handling
//
// A non-nil error from a handler is passed to the ErrorHandler unless the
// response was already written. Without one, a bare 500 is sent. The error
// text never reaches the client through the default path.
//
// # Server Runtime
//
//	err := app.Run(":8080",
//	    internal.Logger(log),
//	    internal.StartupHook(checkRedis),
//	    internal.ShutdownHook(redis.Shutdown(client)),
//	)
//
// Startup hooks run after the port is bound and before serving. Shutdown
// hooks run after in-flight requests drain, within ShutdownTimeout.
package internal
