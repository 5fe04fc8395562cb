package smtp

import "errors"

var (
	ErrMissingHost     = errors.New("smtp: host is required")
	ErrInvalidSecurity = errors.New("smtp: security must be ssl, starttls or none")
	ErrBuildMessage    = errors.New("smtp: failed to build message")
	ErrDeliver         = errors.New("smtp: delivery failed")
)
