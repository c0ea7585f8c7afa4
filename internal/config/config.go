package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// APIBaseURL is the remote gateway the client talks to.
	APIBaseURL string `env:"SHOPFRONT_API_URL" default:"http://localhost:8080"`

	// HTTPTimeout bounds every outbound request end to end.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"10s"`

	// RateLimit caps outbound requests per second; 0 disables the limiter.
	RateLimit float64 `env:"RATE_LIMIT" default:"0"`

	// CredentialsFile is the durable credential store location.
	CredentialsFile string `env:"CREDENTIALS_FILE" default:""`

	// RedisURL switches the credential store to the Redis backend when set.
	RedisURL string `env:"REDIS_URL" default:""`

	// RefreshInterval drives the background token refresh; 0 disables it.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" default:"0"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SHOPFRONT_API_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}

	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative, got %v", cfg.HTTPTimeout)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative, got %v", cfg.RefreshInterval)
	}

	return nil
}
