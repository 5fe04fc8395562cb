package captcha

import "errors"

var (
	ErrMissingToken   = errors.New("captcha: token is missing")
	ErrRequest        = errors.New("captcha: verification request failed")
	ErrBadStatus      = errors.New("captcha: unexpected verification status")
	ErrMalformed      = errors.New("captcha: malformed verification response")
	ErrNotVerified    = errors.New("captcha: challenge not passed")
	ErrLowScore       = errors.New("captcha: score below threshold")
	ErrActionMismatch = errors.New("captcha: action mismatch")
	ErrUnknown        = errors.New("captcha: unknown provider")
	ErrMissingSecret  = errors.New("captcha: secret key is required")
)
