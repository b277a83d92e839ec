// Package config loads engine configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all engine configuration.
type Config struct {
	Engine    EngineConfig
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// EngineConfig holds session engine tuning.
type EngineConfig struct {
	// DebounceWindow is the minimum interval between accepted interactions
	// per session. Clamped to [0, 5s] at use.
	DebounceWindow time.Duration `envconfig:"DEBOUNCE_WINDOW" default:"150ms"`
	// GraceQuanta is how many scheduler quanta interaction handling stays
	// suspended after a view transition.
	GraceQuanta int `envconfig:"GRACE_QUANTA" default:"1"`
	// PersonalGridSize is the slot count of a user's personal grid.
	PersonalGridSize int `envconfig:"PERSONAL_GRID_SIZE" default:"36"`
}

// ServerConfig holds the admin HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds admin API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("GRIDMENU", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DebounceWindow:   150 * time.Millisecond,
			GraceQuanta:      1,
			PersonalGridSize: 36,
		},
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
