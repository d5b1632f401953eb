// Package config handles configuration for the sync server.
//
// Sources are layered, later ones winning: built-in defaults, a config file
// given with -c/-config (JSON, YAML or TOML), a .env file in the working
// directory, LINGUA_* environment variables and finally command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/flagx"
	"github.com/go-playground/validator/v10"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendKVRest   = "kvrest"
)

// Config holds runtime settings for the sync server.
type Config struct {
	Address         string        `mapstructure:"address" validate:"required"`
	SecretKey       string        `mapstructure:"secret_key" validate:"required,min=8"`
	TokenValidity   time.Duration `mapstructure:"token_validity" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MergeRetries    uint          `mapstructure:"merge_retries" validate:"min=1"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `mapstructure:"log_format" validate:"oneof=json text zap"`
	Storage         StorageConfig `mapstructure:"storage"`
	Backup          BackupConfig  `mapstructure:"backup"`
}

// StorageConfig selects and configures the account document store.
type StorageConfig struct {
	Backend        string        `mapstructure:"backend" validate:"oneof=memory postgres redis kvrest"`
	MemoryFile     string        `mapstructure:"memory_file"`
	DatabaseDSN    string        `mapstructure:"database_dsn" validate:"required_if=Backend postgres"`
	RedisAddr      string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db" validate:"min=0"`
	KVRestURL      string        `mapstructure:"kv_rest_url" validate:"required_if=Backend kvrest,omitempty,url"`
	KVRestToken    string        `mapstructure:"kv_rest_token" validate:"required_if=Backend kvrest"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// BackupConfig configures the optional daily snapshot archive in S3.
type BackupConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	Region    string `mapstructure:"region" validate:"required_if=Enabled true"`
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.SecretKey = "change-me-secret"
	c.TokenValidity = 30 * 24 * time.Hour
	c.ShutdownTimeout = 10 * time.Second
	c.MergeRetries = 5
	c.LogLevel = "info"
	c.LogFormat = "json"

	c.Storage.Backend = BackendMemory
	c.Storage.RequestTimeout = 10 * time.Second

	c.Backup.Region = "us-east-1"
}

// Validate checks the merged settings. Errors wrap common.ErrConfiguration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	return nil
}

// LoadConfig builds a Config from all sources and validates it.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], dotEnvFile)
}

func load(args []string, envFile string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}
	if err := parseViper(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
