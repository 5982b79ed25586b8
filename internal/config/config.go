package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreSQLite = "sqlite"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	APIBaseURL      string        `env:"API_BASE_URL" envDefault:"https://reqres.in"`
	APIKey          string        `env:"API_KEY"`
	ForwardToken    bool          `env:"FORWARD_TOKEN" envDefault:"false"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"0s"`

	SessionSecret string `env:"SESSION_SECRET"`
	SessionStore  string `env:"SESSION_STORE" envDefault:"memory"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"employwise.db"`

	// Default to secure cookies; disable only for local development.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	NotificationTTL time.Duration `env:"NOTIFICATION_TTL" envDefault:"3s"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreSQLite:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreSQLite, c.SessionStore)
	}
	if c.NotificationTTL <= 0 {
		return fmt.Errorf("NOTIFICATION_TTL must be positive, got %s", c.NotificationTTL)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative, got %s", c.UpstreamTimeout)
	}
	return nil
}
