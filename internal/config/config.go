// Package config loads the immutable site configuration from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/contactsite/pkg/captcha"
	"github.com/dmitrymomot/contactsite/pkg/logger"
	"github.com/dmitrymomot/contactsite/pkg/mailer"
	"github.com/dmitrymomot/contactsite/pkg/mailer/resend"
	"github.com/dmitrymomot/contactsite/pkg/mailer/ses"
	"github.com/dmitrymomot/contactsite/pkg/mailer/smtp"
	"github.com/dmitrymomot/contactsite/pkg/validator"
)

// EnvDevelopment relaxes SECRET_KEY and enables the log transport by default.
const EnvDevelopment = "development"

// minSecretLength matches the cookie manager requirement.
const minSecretLength = 32

// Mail transports.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
	TransportSES    = "ses"
	TransportLog    = "log"
)

// OptionalFields lists the form fields a deployment may make mandatory.
// name, email and message are always required.
var OptionalFields = []string{"phone", "address", "postal_code", "city", "join", "accept_policy"}

// Config is parsed once at startup and passed by value afterwards.
type Config struct {
	Env             string `env:"APP_ENV" envDefault:"production"`
	SecretKey       string `env:"SECRET_KEY"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"fi"`
	RedisURL        string `env:"REDIS_URL"`

	HTTP    HTTP
	Log     logger.Config
	Mail    Mail
	Captcha Captcha
	Contact Contact

	// SecretGenerated is set when a development key was generated.
	SecretGenerated bool
}

// HTTP holds server settings.
type HTTP struct {
	Addr             string        `env:"HTTP_ADDR" envDefault:":8080"`
	BaseURL          string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	ConfirmationPath string        `env:"CONFIRMATION_PATH" envDefault:"/kiitos"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TrustProxy       bool          `env:"TRUST_PROXY" envDefault:"false"`
}

// Mail holds notifier settings and the transport configurations.
type Mail struct {
	Transport string        `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	To        []string      `env:"MAIL_TO" envSeparator:","`
	CC        []string      `env:"MAIL_CC" envSeparator:","`
	BCC       []string      `env:"MAIL_BCC" envSeparator:","`
	Timeout   time.Duration `env:"MAIL_TIMEOUT" envDefault:"20s"`

	Mailer mailer.Config
	SMTP   smtp.Config
	Resend resend.Config
	SES    ses.Config
}

// Captcha configures the abuse guard verifier. An empty Provider disables it.
type Captcha struct {
	Provider  string        `env:"CAPTCHA_PROVIDER"`
	SiteKey   string        `env:"CAPTCHA_SITE_KEY"`
	SecretKey string        `env:"CAPTCHA_SECRET_KEY"`
	MinScore  float64       `env:"CAPTCHA_MIN_SCORE" envDefault:"0.5"`
	Timeout   time.Duration `env:"CAPTCHA_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether a CAPTCHA provider is configured.
func (c Captcha) Enabled() bool {
	return c.Provider != ""
}

// Contact configures the submission pipeline.
type Contact struct {
	RequiredFields []string      `env:"CONTACT_REQUIRED_FIELDS" envSeparator:","`
	RateLimit      int           `env:"CONTACT_RATE_LIMIT" envDefault:"5"`
	RateWindow     time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"10m"`
	DedupeWindow   time.Duration `env:"CONTACT_DEDUPE_WINDOW" envDefault:"10m"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads configuration from the given variables only.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrConfiguration, err)
	}

	cfg.normalize()

	if cfg.SecretKey == "" && cfg.IsDevelopment() {
		key, err := randomKey()
		if err != nil {
			return Config{}, errors.Join(ErrConfiguration, err)
		}
		cfg.SecretKey = key
		cfg.SecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Validate reports every problem at once, wrapped in ErrConfiguration.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(c.SecretKey) < minSecretLength {
		add("SECRET_KEY must be at least %d bytes", minSecretLength)
	}
	if !strings.HasPrefix(c.HTTP.ConfirmationPath, "/") || strings.HasPrefix(c.HTTP.ConfirmationPath, "//") {
		add("CONFIRMATION_PATH must be a local path")
	}
	if c.HTTP.ConfirmationPath == "/" {
		add("CONFIRMATION_PATH must differ from the form path")
	}

	if len(c.Mail.To) == 0 {
		add("MAIL_TO is required")
	}
	for _, list := range [][]string{c.Mail.To, c.Mail.CC, c.Mail.BCC} {
		for _, addr := range list {
			if !validator.IsEmail(addr) {
				add("invalid recipient %q", addr)
			}
		}
	}
	if c.Mail.Transport != TransportLog && !validator.IsEmail(c.Mail.Mailer.From) {
		add("MAIL_FROM must be a valid address")
	}

	switch c.Mail.Transport {
	case TransportSMTP:
		if c.Mail.SMTP.Host == "" {
			add("SMTP_HOST is required for the smtp transport")
		}
	case TransportResend:
		if c.Mail.Resend.APIKey == "" {
			add("RESEND_API_KEY is required for the resend transport")
		}
	case TransportSES:
		if c.Mail.SES.Region == "" {
			add("SES_REGION is required for the ses transport")
		}
	case TransportLog:
	default:
		add("unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}

	if c.Captcha.Enabled() {
		if _, err := captcha.Lookup(c.Captcha.Provider); err != nil {
			add("unknown CAPTCHA_PROVIDER %q", c.Captcha.Provider)
		}
		if c.Captcha.SecretKey == "" || c.Captcha.SiteKey == "" {
			add("CAPTCHA_SITE_KEY and CAPTCHA_SECRET_KEY are required when CAPTCHA_PROVIDER is set")
		}
		if c.Captcha.MinScore < 0 || c.Captcha.MinScore > 1 {
			add("CAPTCHA_MIN_SCORE must be between 0 and 1")
		}
	}

	for _, f := range c.Contact.RequiredFields {
		if !slices.Contains(OptionalFields, f) {
			add("unknown field %q in CONTACT_REQUIRED_FIELDS", f)
		}
	}
	if c.Contact.RateLimit < 0 {
		add("CONTACT_RATE_LIMIT must not be negative")
	}
	if c.Contact.RateLimit > 0 && c.Contact.RateWindow <= 0 {
		add("CONTACT_RATE_WINDOW must be positive")
	}

	if c.HTTP.RequestTimeout <= 0 {
		add("REQUEST_TIMEOUT must be positive")
	} else if budget := c.outboundBudget(); budget >= c.HTTP.RequestTimeout {
		add("CAPTCHA_TIMEOUT plus MAIL_TIMEOUT (%s) must be below REQUEST_TIMEOUT (%s)", budget, c.HTTP.RequestTimeout)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
}

// outboundBudget is the longest a submission can spend in the CAPTCHA and
// mail calls. The retry page is rendered after both, so the request deadline
// must leave room for it.
func (c Config) outboundBudget() time.Duration {
	send := c.Mail.Timeout
	if c.Mail.Transport == TransportSMTP {
		send = max(send, c.Mail.SMTP.Timeout)
	}
	if c.Captcha.Enabled() {
		return c.Captcha.Timeout + send
	}
	return send
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.Mail.Transport = strings.ToLower(strings.TrimSpace(c.Mail.Transport))
	c.Captcha.Provider = strings.ToLower(strings.TrimSpace(c.Captcha.Provider))
	c.Mail.To = cleanList(c.Mail.To, strings.TrimSpace)
	c.Mail.CC = cleanList(c.Mail.CC, strings.TrimSpace)
	c.Mail.BCC = cleanList(c.Mail.BCC, strings.TrimSpace)
	c.Contact.RequiredFields = cleanList(c.Contact.RequiredFields, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

func cleanList(in []string, fn func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = fn(v); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func randomKey() (string, error) {
	b := make([]byte, minSecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
