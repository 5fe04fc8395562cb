package htmx

import (
	"net/http"
)

// Redirect sends a 303 See Other, or HX-Redirect with 200 for htmx requests
// since htmx does not follow 3xx responses into a full navigation.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	RedirectWithStatus(w, r, url, http.StatusSeeOther)
}

// RedirectWithStatus is Redirect with an explicit status for plain requests.
func RedirectWithStatus(w http.ResponseWriter, r *http.Request, url string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, status)
}
