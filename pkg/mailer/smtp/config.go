package smtp

import "time"

// Security selects how the connection is protected.
type Security string

const (
	SecuritySSL      Security = "ssl"      // implicit TLS, usually port 465
	SecurityStartTLS Security = "starttls" // upgrade after EHLO, usually port 587
	SecurityNone     Security = "none"     // plaintext, local relays and tests only
)

// Config holds SMTP relay settings.
type Config struct {
	Host     string        `env:"SMTP_HOST"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	Security Security      `env:"SMTP_SECURITY" envDefault:"ssl"`
	Port     int           `env:"SMTP_PORT"` // zero selects the port for Security
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
}

// EffectivePort returns Port, or the conventional port for the security
// mode when Port is zero: 465 for ssl, 587 for starttls and 25 for none.
func (c Config) EffectivePort() int {
	if c.Port > 0 {
		return c.Port
	}
	switch c.Security {
	case SecurityStartTLS:
		return 587
	case SecurityNone:
		return 25
	default:
		return 465
	}
}
