// Package htmx holds helpers for progressively enhanced forms.
//
// Without JavaScript the contact form posts normally and the server answers
// with a full page or a 303 redirect. With htmx loaded, the same endpoints
// receive HX-Request and answer with a partial, or with HX-Redirect since
// htmx swaps 3xx targets in place instead of navigating:
//
//	if htmx.IsHTMX(r) {
//		// render the form fragment only
//	}
//	htmx.Redirect(w, r, "/kiitos")
package htmx
