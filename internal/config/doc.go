// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags.
// Validates the API base URL and the timeout/limiter settings.
package config
