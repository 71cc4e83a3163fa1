package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type R2 struct {
	AccountID  string `mapstructure:"R2_ACCOUNT_ID"`
	AccessKey  string `mapstructure:"R2_ACCESS_KEY"`
	SecretKey  string `mapstructure:"R2_SECRET_KEY"`
	BucketName string `mapstructure:"R2_BUCKET_NAME"`
	PublicURL  string `mapstructure:"R2_PUBLIC_URL"`
}

// Providers holds server-side fallback keys for the content providers.
// Per-request and per-user keys take precedence.
type Providers struct {
	PerplexityAPIKey string `mapstructure:"PERPLEXITY_API_KEY"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
}

type Scheduler struct {
	Interval    string        `mapstructure:"SCHEDULER_INTERVAL" validate:"required"`
	Concurrency int           `mapstructure:"DISPATCH_CONCURRENCY" validate:"gt=0"`
	LockTTL     time.Duration `mapstructure:"DISPATCH_LOCK_TTL" validate:"gt=0"`
}

type Config struct {
	Port              string        `mapstructure:"PORT" validate:"required"`
	ServiceName       string        `mapstructure:"SERVICE_NAME" validate:"required"`
	LogLevel          string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	PostgresURI       string        `mapstructure:"POSTGRES_URI" validate:"required"`
	RedisURI          string        `mapstructure:"REDIS_URI" validate:"required"`
	FrontendURL       string        `mapstructure:"FRONTEND_URL"`
	TracingURL        string        `mapstructure:"TRACING_URL"`
	SecretKey         string        `mapstructure:"SECRET_KEY" validate:"required,min=16"`
	RefreshSecretKey  string        `mapstructure:"REFRESH_SECRET_KEY" validate:"required,min=16"`
	EncryptionSecret  string        `mapstructure:"ENCRYPTION_SECRET" validate:"required,len=64,hexadecimal"`
	CookieName        string        `mapstructure:"COOKIE_NAME" validate:"required"`
	RefreshCookieName string        `mapstructure:"REFRESH_COOKIE_NAME" validate:"required"`
	SecureCookies     bool          `mapstructure:"SECURE_COOKIES"`
	HTTPTimeout       time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0"`
	R2                R2            `mapstructure:",squash"`
	Providers         Providers     `mapstructure:",squash"`
	Scheduler         Scheduler     `mapstructure:",squash"`
}

var defaults = map[string]any{
	"PORT":                 "5000",
	"SERVICE_NAME":         "tweetgenie",
	"LOG_LEVEL":            "info",
	"POSTGRES_URI":         "",
	"REDIS_URI":            "localhost:6379",
	"FRONTEND_URL":         "http://localhost:5173",
	"TRACING_URL":          "",
	"SECRET_KEY":           "",
	"REFRESH_SECRET_KEY":   "",
	"ENCRYPTION_SECRET":    "",
	"COOKIE_NAME":          "accessToken",
	"REFRESH_COOKIE_NAME":  "refreshToken",
	"SECURE_COOKIES":       false,
	"HTTP_TIMEOUT":         "30s",
	"R2_ACCOUNT_ID":        "",
	"R2_ACCESS_KEY":        "",
	"R2_SECRET_KEY":        "",
	"R2_BUCKET_NAME":       "",
	"R2_PUBLIC_URL":        "",
	"PERPLEXITY_API_KEY":   "",
	"GEMINI_API_KEY":       "",
	"OPENAI_API_KEY":       "",
	"SCHEDULER_INTERVAL":   "@every 1m",
	"DISPATCH_CONCURRENCY": 10,
	"DISPATCH_LOCK_TTL":    "10m",
}

// LoadConfig reads the configuration from the environment. Every known key
// has a default so viper's AutomaticEnv picks it up during Unmarshal.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
