// Package config loads server settings from ARCADE_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server's environment configuration
type Config struct {
	Addr string `env:"ARCADE_ADDR"`
	Port int    `env:"ARCADE_PORT" envDefault:"8080"`

	Storage       string        `env:"ARCADE_STORAGE" envDefault:"memory"`
	RedisURL      string        `env:"ARCADE_REDIS_URL"`
	RedisPoolSize int           `env:"ARCADE_REDIS_POOL_SIZE" envDefault:"10"`
	GuestTTL      time.Duration `env:"ARCADE_GUEST_TTL" envDefault:"24h"`

	// Lifetime of issued auth tokens
	SessionTTL time.Duration `env:"ARCADE_SESSION_TTL" envDefault:"24h"`

	LogLevel  string `env:"ARCADE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ARCADE_LOG_FORMAT" envDefault:"json"`

	// How often hubs without clients are closed
	HubJanitorInterval time.Duration `env:"ARCADE_HUB_JANITOR_INTERVAL" envDefault:"1m"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed as struct tags
func (c Config) Validate() error {
	switch c.Storage {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("ARCADE_REDIS_URL is required when ARCADE_STORAGE=redis")
		}
	default:
		return fmt.Errorf("ARCADE_STORAGE must be memory or redis, got %q", c.Storage)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("ARCADE_PORT out of range: %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("ARCADE_SESSION_TTL must be positive")
	}
	if c.HubJanitorInterval <= 0 {
		return fmt.Errorf("ARCADE_HUB_JANITOR_INTERVAL must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel to a slog level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("ARCADE_LOG_LEVEL: %w", err)
	}
	return level, nil
}
