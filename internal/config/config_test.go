package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the given variables for the duration of the test, so
// ambient host configuration cannot leak into assertions. t.Setenv registers
// the restore; the unset makes the variable truly absent, not empty.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
	"SHOPFRONT_API_URL", "HTTP_TIMEOUT", "RATE_LIMIT",
	"CREDENTIALS_FILE", "REDIS_URL", "REFRESH_INTERVAL",
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, configKeys...)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.RateLimit)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("SHOPFRONT_API_URL", "https://shop.example.com")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"relative path", "/api/v1"},
		{"missing scheme", "localhost:8080"},
		{"empty host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, configKeys...)
			t.Setenv("SHOPFRONT_API_URL", tt.url)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "SHOPFRONT_API_URL")
		})
	}
}

func TestLoad_NegativeTimeout(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("HTTP_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}
