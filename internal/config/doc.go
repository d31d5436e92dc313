// Package config loads runtime configuration for the Lockbox terminal app.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   keychain database file
//	-b string   backup directory
//	-t int      auto-lock interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5m" or integer nanoseconds:
//
//	{
//	  "keychain_path": "lockbox.db",
//	  "backup_dir": "backups",
//	  "auto_lock": "5m",
//	  "log_level": "info"
//	}
package config
