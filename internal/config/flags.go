package config

import (
	"flag"
	"os"
	"time"

	"github.com/lockbox-mobile/lockbox/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   keychain database file (default from Config)
//	-b string   backup directory (default from Config)
//	-t int      auto-lock interval in seconds (default from Config)
//	-l string   log level (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.KeychainPath, "d", cfg.KeychainPath, "keychain database file")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "backup directory")
	autoLock := fs.Int("t", int(cfg.AutoLock.Seconds()), "auto-lock interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AutoLock = time.Duration(*autoLock) * time.Second
}
