package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Open when REDIS_URL is blank.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	// ErrFailedToParseURL is returned for anything but redis:// and rediss:// URLs.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")
	// ErrConnectionFailed wraps the last ping error after all retries.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")
	// ErrHealthcheckFailed is reported by the readiness check.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
