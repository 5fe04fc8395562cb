package contact

import (
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/contactsite/pkg/sanitizer"
	"github.com/dmitrymomot/contactsite/pkg/validator"
)

// Field length limits in characters.
const (
	maxShortLength   = 200
	maxEmailLength   = 254
	maxMessageLength = 5000
)

// joinChoices maps accepted form values to the normalized choice.
var joinChoices = map[string]string{
	"yes":   JoinYes,
	"kyllä": JoinYes,
	"no":    JoinNo,
	"ei":    JoinNo,
}

var truthyValues = []string{"y", "yes", "on", "true", "1"}

// check returns the rules for a sanitized field value.
type check func(field, value string) []validator.Rule

// fieldRule is one entry of the validation table. present is the rule
// applied to required fields; nil means validator.RequiredString.
type fieldRule struct {
	field    string
	required bool
	present  func(field, value string) validator.Rule
	check    check
}

// Validator turns raw form values into a Submission.
// name, email and message are always required.
type Validator struct {
	rules []fieldRule
}

// NewValidator returns a Validator that additionally requires the given fields.
// Unknown names are ignored.
func NewValidator(requiredFields ...string) *Validator {
	req := func(field string) bool {
		return slices.Contains(requiredFields, field)
	}

	return &Validator{rules: []fieldRule{
		{field: FieldName, required: true, check: maxLen(maxShortLength)},
		{field: FieldEmail, required: true, check: both(email, maxLen(maxEmailLength))},
		{field: FieldPhone, required: req(FieldPhone), check: maxLen(maxShortLength)},
		{field: FieldAddress, required: req(FieldAddress), check: maxLen(maxShortLength)},
		{field: FieldPostalCode, required: req(FieldPostalCode), check: maxLen(maxShortLength)},
		{field: FieldCity, required: req(FieldCity), check: maxLen(maxShortLength)},
		{field: FieldJoin, required: req(FieldJoin), check: joinChoice},
		{field: FieldMessage, required: true, check: maxLen(maxMessageLength)},
		{field: FieldAcceptPolicy, required: req(FieldAcceptPolicy), present: policyAccepted},
	}}
}

// Required reports whether field must be filled in.
func (v *Validator) Required(field string) bool {
	for _, r := range v.rules {
		if r.field == field {
			return r.required
		}
	}
	return false
}

// Validate sanitizes values and applies the rule table. On failure the
// returned error carries validator.ValidationErrors, at most one per field.
// It never touches the network.
func (v *Validator) Validate(values url.Values) (Submission, error) {
	clean := make(map[string]string, len(v.rules))
	for _, r := range v.rules {
		clean[r.field] = sanitizer.Text(values.Get(r.field))
	}

	join := normalizeJoin(clean[FieldJoin])
	accepted := isTruthy(clean[FieldAcceptPolicy])
	if accepted {
		clean[FieldAcceptPolicy] = JoinYes
	} else {
		clean[FieldAcceptPolicy] = ""
	}
	clean[FieldJoin] = join

	var rules []validator.Rule
	for _, r := range v.rules {
		value := clean[r.field]
		if r.required {
			present := r.present
			if present == nil {
				present = validator.RequiredString
			}
			rules = append(rules, present(r.field, value))
		}
		if r.check != nil {
			rules = append(rules, r.check(r.field, value)...)
		}
	}

	sub := Submission{
		Name:           clean[FieldName],
		Email:          clean[FieldEmail],
		Phone:          clean[FieldPhone],
		Address:        clean[FieldAddress],
		PostalCode:     clean[FieldPostalCode],
		City:           clean[FieldCity],
		Join:           join,
		Message:        clean[FieldMessage],
		PolicyAccepted: accepted,
	}

	if err := validator.Apply(rules...); err != nil {
		return sub, err
	}
	return sub, nil
}

func maxLen(n int) check {
	return func(field, value string) []validator.Rule {
		return []validator.Rule{validator.MaxLenString(field, value, n)}
	}
}

func email(field, value string) []validator.Rule {
	return []validator.Rule{validator.ValidEmail(field, value)}
}

func policyAccepted(field, value string) validator.Rule {
	return validator.Accepted(field, value == JoinYes)
}

func joinChoice(field, value string) []validator.Rule {
	return []validator.Rule{validator.OneOf(field, value, JoinYes, JoinNo)}
}

func both(a, b check) check {
	return func(field, value string) []validator.Rule {
		return append(a(field, value), b(field, value)...)
	}
}

// normalizeJoin maps known choices and leaves anything else as typed so
// the OneOf rule reports it.
func normalizeJoin(v string) string {
	if choice, ok := joinChoices[strings.ToLower(v)]; ok {
		return choice
	}
	return v
}

func isTruthy(v string) bool {
	return slices.Contains(truthyValues, strings.ToLower(v))
}
