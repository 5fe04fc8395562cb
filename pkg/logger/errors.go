package logger

import "errors"

var (
	// ErrInvalidLevel is returned when a log level name is not recognized.
	ErrInvalidLevel = errors.New("logger: invalid log level")

	// ErrOpenLogFile is returned when the file sink cannot be opened.
	ErrOpenLogFile = errors.New("logger: failed to open log file")
)
