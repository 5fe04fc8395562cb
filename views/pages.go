package views

import "github.com/a-h/templ"

// ThanksPage is the confirmation page shown after a submission.
func ThanksPage(p Page) templ.Component {
	return render("thanks_page", p)
}

type errorData struct {
	Page
	Message string
	Code    int
}

// ErrorPage is the full error page.
func ErrorPage(p Page, code int, message string) templ.Component {
	return render("error_page", errorData{Page: p, Code: code, Message: message})
}

// ErrorContent is the error partial for HTMX requests.
func ErrorContent(p Page, code int, message string) templ.Component {
	return render("error_content", errorData{Page: p, Code: code, Message: message})
}
