package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/flagx"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key from an empty one.
type JSONConfig struct {
	ServerURL           *string         `json:"server_url"`
	DatabasePath        *string         `json:"database_path"`
	SyncDebounce        *timex.Duration `json:"sync_debounce"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogFile             *string         `json:"log_file"`
	LogLevel            *string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c/-config, if any.
func parseJSON(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", common.ErrConfiguration, path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("%w: parse %s: %w", common.ErrConfiguration, path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc JSONConfig) apply(cfg *Config) {
	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.SyncDebounce != nil {
		cfg.SyncDebounce = jc.SyncDebounce.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
