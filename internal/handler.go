package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Pages struct{}
//
//	func (h *Pages) Routes(r contactsite.Router) {
//	    r.GET("/", h.contact)
//	    r.GET("/kiitos", h.thanks)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func NoStore(next contactsite.HandlerFunc) contactsite.HandlerFunc {
//	    return func(c contactsite.Context) error {
//	        c.SetHeader("Cache-Control", "no-store")
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
