package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lockbox-mobile/lockbox/internal/flagx"
	"github.com/lockbox-mobile/lockbox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	KeychainPath string         `json:"keychain_path"`
	BackupDir    string         `json:"backup_dir"`
	AutoLock     timex.Duration `json:"auto_lock"`
	LogLevel     string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. If no file is given, nothing happens. Read or
// unmarshal errors panic; the caller may recover if desired.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.KeychainPath != "" {
		cfg.KeychainPath = jc.KeychainPath
	}
	if jc.BackupDir != "" {
		cfg.BackupDir = jc.BackupDir
	}
	if jc.AutoLock.Duration != 0 {
		cfg.AutoLock = time.Duration(jc.AutoLock.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
