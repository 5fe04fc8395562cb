package validator

import "errors"

// ErrValidation is the sentinel matched by every ValidationErrors value.
var ErrValidation = errors.New("validator: validation failed")
