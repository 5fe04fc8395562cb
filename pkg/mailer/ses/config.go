package ses

// Config holds Amazon SES v2 settings. Empty keys fall back to the default
// AWS credential chain (environment, shared config, instance role).
type Config struct {
	Region           string `env:"SES_REGION" envDefault:"eu-north-1"`
	AccessKeyID      string `env:"SES_ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"SES_SECRET_ACCESS_KEY"`
	ConfigurationSet string `env:"SES_CONFIGURATION_SET"`
	Endpoint         string `env:"SES_ENDPOINT"`
}
