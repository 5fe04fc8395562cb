package cache

import "errors"

var (
	ErrNotFound  = errors.New("cache: entry not found") // missing or expired
	ErrClosed    = errors.New("cache: closed")
	ErrMarshal   = errors.New("cache: failed to marshal value")
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)
