package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the LinguaCards CLI.
type Config struct {
	ServerURL           string        `validate:"omitempty,url"`
	DatabasePath        string        `validate:"required"`
	SyncDebounce        time.Duration `validate:"gt=0"`
	RequestTimeout      time.Duration `validate:"gt=0"`
	OnlineCheckInterval time.Duration `validate:"gt=0"`
	LogFile             string        `validate:"required"`
	LogLevel            string        `validate:"oneof=debug info warn warning error"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "linguacards.db"
	c.SyncDebounce = 2 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogFile = "linguacards.log"
	c.LogLevel = "info"
}

// SyncEnabled reports whether a server is configured.
func (c *Config) SyncEnabled() bool {
	return c.ServerURL != ""
}

// Validate checks the merged settings. Errors wrap common.ErrConfiguration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
