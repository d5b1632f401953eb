package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-s", "-t", "-i", "-l", "-L"}

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs so flags of other components do not trip
// the parser.
func parseFlags(cfg *Config) error {
	return parseArgs(cfg, flagx.FilterArgs(os.Args[1:], knownFlags))
}

func parseArgs(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("linguacards", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the sync server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.DurationVar(&cfg.SyncDebounce, "s", cfg.SyncDebounce, "sync debounce")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "L", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
