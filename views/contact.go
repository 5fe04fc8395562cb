package views

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/contactsite/pkg/captcha"
	"github.com/dmitrymomot/contactsite/pkg/validator"
)

// Captcha is the widget shown on the form.
type Captcha struct {
	Provider captcha.Provider
	SiteKey  string
}

// Form is the contact form state.
type Form struct {
	Values    url.Values
	Required  func(field string) bool
	Captcha   *Captcha
	Errors    validator.ValidationErrors
	CSRFField string
	CSRFToken string
	Action    string
}

// Field is one input of the form as the template sees it.
type Field struct {
	Name         string
	Label        string
	Type         string
	Autocomplete string
	Value        string
	Error        string
	Required     bool
}

type fieldSpec struct {
	name, inputType, autocomplete string
}

var textFields = []fieldSpec{
	{"name", "text", "name"},
	{"email", "email", "email"},
	{"phone", "tel", "tel"},
	{"address", "text", "street-address"},
	{"postal_code", "text", "postal-code"},
	{"city", "text", "address-level2"},
}

type contactData struct {
	Page
	Form
}

func (d contactData) field(name string) Field {
	f := Field{
		Name:  name,
		Label: d.T("form." + name),
		Value: d.Values.Get(name),
		Error: d.Errors.First(name),
	}
	if d.Required != nil {
		f.Required = d.Required(name)
	}
	return f
}

// Inputs returns the single-line fields in display order.
func (d contactData) Inputs() []Field {
	out := make([]Field, 0, len(textFields))
	for _, s := range textFields {
		f := d.field(s.name)
		f.Type = s.inputType
		f.Autocomplete = s.autocomplete
		out = append(out, f)
	}
	return out
}

// Join is the membership choice field.
func (d contactData) Join() Field { return d.field("join") }

// Message is the message textarea.
func (d contactData) Message() Field { return d.field("message") }

// Policy is the privacy policy checkbox.
func (d contactData) Policy() Field { return d.field("accept_policy") }

// ContactPage is the full landing page with the form.
func ContactPage(p Page, f Form) templ.Component {
	return render("contact_page", contactData{Page: p, Form: f})
}

// ContactForm is the form partial swapped in by HTMX.
func ContactForm(p Page, f Form) templ.Component {
	return render("contact_form", contactData{Page: p, Form: f})
}
