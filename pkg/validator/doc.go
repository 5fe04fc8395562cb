// Package validator provides rule-based validation with translatable errors.
//
// Rules are plain values built by constructors such as RequiredString or
// ValidEmail and evaluated in order by Apply:
//
//	err := validator.Apply(
//		validator.RequiredString("email", form.Email),
//		validator.ValidEmail("email", form.Email),
//		validator.MaxLenString("message", form.Message, 5000),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//		ve.Translate(tr.TranslateMessage)
//	}
//
// Only the first failing rule per field is reported. Each error carries a
// translation key (validation.required, validation.email, ...) and the
// values needed to fill its placeholders.
package validator
