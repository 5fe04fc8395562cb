package contact

import "errors"

var (
	ErrAbuseCheckFailed = errors.New("contact: abuse check failed")
	ErrThrottled        = errors.New("contact: too many submissions")
	ErrDeliveryFailed   = errors.New("contact: delivery failed")
	ErrInProgress       = errors.New("contact: identical submission is being delivered")
	ErrNoRecipients     = errors.New("contact: no recipients configured")
)
