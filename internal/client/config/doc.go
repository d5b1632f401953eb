// Package config loads runtime configuration for the LinguaCards CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the sync server ("" disables sync)
//	-d string     path of the local SQLite database
//	-s duration   quiet period before local changes are synced
//	-t duration   timeout of one request to the sync server
//	-i int        online status check interval (seconds)
//	-l string     log file
//	-L string     log level (debug, info, warn, error)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_url": "https://cards.example.com",
//	  "database_path": "linguacards.db",
//	  "sync_debounce": "2s",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "log_file": "linguacards.log",
//	  "log_level": "info"
//	}
package config
