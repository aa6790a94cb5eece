package redis

import (
	"errors"
	"time"
)

// Config holds Redis connection settings for player and stats storage
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	// Bounds the startup ping
	DialTimeout time.Duration
	// Guest records expire this long after their last save; registered players never expire
	GuestPlayerTTL time.Duration
}

// DefaultConfig returns settings for a local Redis
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379/0",
		PoolSize:       10,
		MinIdleConns:   2,
		DialTimeout:    5 * time.Second,
		GuestPlayerTTL: 24 * time.Hour,
	}
}

// Validate reports settings New cannot use
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return errors.New("redis URL is required")
	case c.PoolSize < 0 || c.MinIdleConns < 0:
		return errors.New("redis pool sizes must not be negative")
	case c.GuestPlayerTTL < 0:
		return errors.New("guest player TTL must not be negative")
	}
	return nil
}
