package resend

// Config holds Resend settings.
type Config struct {
	APIKey  string `env:"RESEND_API_KEY"`
	BaseURL string `env:"RESEND_BASE_URL"` // empty selects the public API
}
