package mailer

// Config holds mailer defaults, parsed from the environment with caarlos0/env.
type Config struct {
	From            string `env:"MAIL_FROM"`
	FromName        string `env:"MAIL_FROM_NAME"`
	SubjectPrefix   string `env:"MAIL_SUBJECT_PREFIX"`
	FallbackSubject string `env:"MAIL_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAIL_DEFAULT_LAYOUT" envDefault:"base.html"`
}

// Sender returns the formatted default sender address.
func (c Config) Sender() string {
	return Recipient(c.FromName, c.From)
}
