package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/flagx"
)

var knownFlags = []string{"-a", "-b", "-d", "-r", "-u", "-s", "-l", "-f"}

// parseFlags overlays command-line flags onto cfg.
//
// Supported flags:
//
//	-a string   listen address (e.g. ":8080")
//	-b string   storage backend: memory, postgres, redis or kvrest
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-u string   KV REST base URL
//	-s string   JWT HMAC secret key
//	-l string   log level
//	-f string   log format: json, text or zap
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.Storage.Backend, "b", cfg.Storage.Backend, "storage backend")
	fs.StringVar(&cfg.Storage.DatabaseDSN, "d", cfg.Storage.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.Storage.RedisAddr, "r", cfg.Storage.RedisAddr, "redis address")
	fs.StringVar(&cfg.Storage.KVRestURL, "u", cfg.Storage.KVRestURL, "kv rest url")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	return nil
}
