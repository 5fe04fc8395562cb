package ses

import "errors"

var (
	ErrConfig    = errors.New("ses: failed to load aws config")
	ErrRejected  = errors.New("ses: message rejected")
	ErrThrottled = errors.New("ses: sending throttled")
	ErrDeliver   = errors.New("ses: delivery failed")

	ErrAttachments = errors.New("ses: attachments are not supported by simple content")
)
