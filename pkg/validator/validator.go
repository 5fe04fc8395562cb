package validator

import (
	"errors"
	"strings"
)

// ValidationError describes a single failed rule for a field.
// Message is the default English text; TranslationKey and TranslationValues
// let callers replace it with a localized message via Translate.
type ValidationError struct {
	TranslationValues map[string]any
	Field             string
	Message           string
	TranslationKey    string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors in rule order.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Has reports whether the field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// First returns the first message recorded for the field, or "".
func (e ValidationErrors) First(field string) string {
	for _, ve := range e {
		if ve.Field == field {
			return ve.Message
		}
	}
	return ""
}

// Fields returns the names of failed fields, without duplicates, in rule order.
func (e ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(e))
	out := make([]string, 0, len(e))
	for _, ve := range e {
		if _, ok := seen[ve.Field]; ok {
			continue
		}
		seen[ve.Field] = struct{}{}
		out = append(out, ve.Field)
	}
	return out
}

// Translate replaces Message in-place using fn for every error carrying a
// TranslationKey. A nil fn is a no-op.
func (e ValidationErrors) Translate(fn func(key string, values map[string]any) string) {
	if fn == nil {
		return
	}
	for i := range e {
		if e[i].TranslationKey == "" {
			continue
		}
		e[i].Message = fn(e[i].TranslationKey, e[i].TranslationValues)
	}
}

// Rule pairs a check with the error reported when the check fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply evaluates rules in order and returns ValidationErrors for the failed ones.
// Only the first failing rule per field is reported.
// Returns nil when every rule passes.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	failed := make(map[string]struct{})
	for _, r := range rules {
		if _, ok := failed[r.Error.Field]; ok {
			continue
		}
		if r.Check == nil || r.Check() {
			continue
		}
		failed[r.Error.Field] = struct{}{}
		errs = append(errs, r.Error)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ExtractValidationErrors returns the ValidationErrors carried by err, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
