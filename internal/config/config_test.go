package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "lockbox.db", cfg.KeychainPath)
	assert.Equal(t, ".", cfg.BackupDir)
	assert.Equal(t, 5*time.Minute, cfg.AutoLock)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseJson_OverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"keychain_path": "/tmp/vault.db",
		"auto_lock": "30s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"lockbox", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "/tmp/vault.db", cfg.KeychainPath)
	assert.Equal(t, 30*time.Second, cfg.AutoLock)
	// untouched fields keep their defaults
	assert.Equal(t, ".", cfg.BackupDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"lockbox", "-d", "other.db", "-t", "60"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "other.db", cfg.KeychainPath)
	assert.Equal(t, time.Minute, cfg.AutoLock)
}

func TestJsonConfig_RoundTrip(t *testing.T) {
	jc := JsonConfig{KeychainPath: "a.db", LogLevel: "debug"}
	b, err := json.Marshal(jc)
	require.NoError(t, err)

	var got JsonConfig
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, jc.KeychainPath, got.KeychainPath)
	assert.Equal(t, jc.LogLevel, got.LogLevel)
}
