package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	// Base URL of the remote account API, e.g. https://api.safelease.example/api
	APIBaseURL string `env:"API_BASE_URL"`

	// Cookie settings for the token slots.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// Optional short-TTL cache of the current-user lookup.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	UserCacheTTL  int    `env:"USER_CACHE_TTL_SEC" envDefault:"5"`

	// Optional error reporting.
	SentryDSN   string `env:"SENTRY_DSN" envDefault:""`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from the environment. A .env file in the CWD is
// loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}

	return cfg, nil
}
