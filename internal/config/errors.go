package config

import "errors"

// ErrConfiguration marks a configuration that cannot start the server.
var ErrConfiguration = errors.New("config: invalid configuration")
