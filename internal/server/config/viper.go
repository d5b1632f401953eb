package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "LINGUA"
	dotEnvFile = ".env"
)

// loadDotEnv exports variables from a .env file. Variables already present in
// the environment are kept; a missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: load %s: %w", common.ErrConfiguration, path, err)
	}
	return nil
}

// parseViper overlays the config file and LINGUA_* variables onto cfg.
// Nested keys map to variables with "_" for ".", e.g. storage.backend is
// LINGUA_STORAGE_BACKEND. The KV credentials also honour the variable names
// used by hosted KV providers.
func parseViper(cfg *Config, path string) error {
	v := viper.New()

	for key, value := range defaults(cfg) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("storage.kv_rest_url", "LINGUA_STORAGE_KV_REST_URL", "KV_REST_API_URL")
	_ = v.BindEnv("storage.kv_rest_token", "LINGUA_STORAGE_KV_REST_TOKEN", "KV_REST_API_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: read %s: %w", common.ErrConfiguration, path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	return nil
}

func defaults(c *Config) map[string]any {
	return map[string]any{
		"address":          c.Address,
		"secret_key":       c.SecretKey,
		"token_validity":   c.TokenValidity,
		"shutdown_timeout": c.ShutdownTimeout,
		"merge_retries":    c.MergeRetries,
		"log_level":        c.LogLevel,
		"log_format":       c.LogFormat,

		"storage.backend":         c.Storage.Backend,
		"storage.memory_file":     c.Storage.MemoryFile,
		"storage.database_dsn":    c.Storage.DatabaseDSN,
		"storage.redis_addr":      c.Storage.RedisAddr,
		"storage.redis_password":  c.Storage.RedisPassword,
		"storage.redis_db":        c.Storage.RedisDB,
		"storage.kv_rest_url":     c.Storage.KVRestURL,
		"storage.kv_rest_token":   c.Storage.KVRestToken,
		"storage.request_timeout": c.Storage.RequestTimeout,

		"backup.enabled":    c.Backup.Enabled,
		"backup.bucket":     c.Backup.Bucket,
		"backup.region":     c.Backup.Region,
		"backup.endpoint":   c.Backup.Endpoint,
		"backup.access_key": c.Backup.AccessKey,
		"backup.secret_key": c.Backup.SecretKey,
	}
}
