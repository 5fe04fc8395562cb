package internal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/contactsite/pkg/cookie"
	"github.com/dmitrymomot/contactsite/pkg/logger"
)

// App is the HTTP application: a chi router plus the handlers, middleware
// and cookie settings given to New. It does not change after New returns.
type App struct {
	router        chi.Router
	logger        *slog.Logger
	cookieManager *cookie.Manager

	errorHandler     ErrorHandler
	notFound         HandlerFunc
	methodNotAllowed HandlerFunc

	middlewares []Middleware
	handlers    []Handler
	static      []staticMount
	health      *healthSetup
	trustProxy  bool
}

type staticMount struct {
	pattern string
	handler http.Handler
}

// New builds the router from opts.
//
//	app := contactsite.New(
//	    contactsite.WithMiddleware(middlewares.RequestID()),
//	    contactsite.WithHandlers(handlers.NewContact(pipeline)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.mount()
	return a
}

// Router exposes the chi router, mainly for tests.
func (a *App) Router() chi.Router { return a.router }

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) mount() {
	// RealIP goes first so every layer sees the client address.
	if a.trustProxy {
		a.router.Use(chimw.RealIP)
	}
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.notFound != nil {
		a.router.NotFound(a.wrapHandler(a.notFound))
	}
	if a.methodNotAllowed != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowed))
	}

	for _, s := range a.static {
		a.router.Mount(s.pattern, s.handler)
	}
	if a.health != nil {
		a.health.mount(a.router, a.logger)
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// wrapHandler gives h a Context and routes a returned error to fail.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.fail(c, err)
		}
	}
}

// fail hands err to the error handler unless the response has started.
func (a *App) fail(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler == nil {
		http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		a.logger.ErrorContext(c.Request().Context(), "error handler failed", slog.Any("error", herr), slog.Any("cause", err))
	}
}
