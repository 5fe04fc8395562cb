package validator

import (
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

// Translation keys used by the built-in rules.
const (
	KeyRequired  = "validation.required"
	KeyMaxLength = "validation.max_length"
	KeyEmail     = "validation.email"
	KeyOneOf     = "validation.one_of"
	KeyAccepted  = "validation.accepted"
)

func newRule(field, message, key string, values map[string]any, check func() bool) Rule {
	if values == nil {
		values = map[string]any{}
	}
	values["field"] = field
	return Rule{
		Check: check,
		Error: ValidationError{
			Field:             field,
			Message:           message,
			TranslationKey:    key,
			TranslationValues: values,
		},
	}
}

// RequiredString fails when the value is empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return newRule(field, "is required", KeyRequired, nil, func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// MaxLenString fails when the value has more than max characters.
func MaxLenString(field, value string, maxLen int) Rule {
	return newRule(field, "is too long", KeyMaxLength, map[string]any{"max": maxLen}, func() bool {
		return utf8.RuneCountInString(value) <= maxLen
	})
}

// ValidEmail fails when a non-empty value is not a bare email address.
// Empty values pass; combine with RequiredString when the field is mandatory.
func ValidEmail(field, value string) Rule {
	return newRule(field, "must be a valid email address", KeyEmail, nil, func() bool {
		return value == "" || IsEmail(value)
	})
}

// OneOf fails when a non-empty value is not among allowed.
func OneOf(field, value string, allowed ...string) Rule {
	return newRule(field, "has an invalid value", KeyOneOf, map[string]any{"values": strings.Join(allowed, ", ")}, func() bool {
		return value == "" || slices.Contains(allowed, value)
	})
}

// Accepted fails unless the checkbox-like flag is set.
func Accepted(field string, value bool) Rule {
	return newRule(field, "must be accepted", KeyAccepted, nil, func() bool {
		return value
	})
}

// IsEmail reports whether s is a bare address of the form local@domain.tld.
// Display names ("Ada <ada@example.com>") are rejected.
func IsEmail(s string) bool {
	if s == "" || len(s) > 254 || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
