package config

import "time"

// Config holds runtime settings for the Lockbox terminal app.
//
// Fields:
//   - KeychainPath: path of the local keychain database file.
//   - BackupDir: directory where encrypted vault exports are written.
//   - AutoLock: idle interval after which the session locks itself.
//   - LogLevel: minimum log level ("debug", "info", "warn", "error").
type Config struct {
	KeychainPath string
	BackupDir    string
	AutoLock     time.Duration
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.KeychainPath = "lockbox.db"
	c.BackupDir = "."
	c.AutoLock = 5 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
