// Package cli implements the Lockbox terminal front end: a small REPL over
// the vault session. It is the "UI layer" the store contract assumes — it
// runs operations synchronously, so per-record serialization holds by
// construction.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/lockbox-mobile/lockbox/internal/config"
	"github.com/lockbox-mobile/lockbox/internal/cryptox"
	"github.com/lockbox-mobile/lockbox/internal/keychain"
	"github.com/lockbox-mobile/lockbox/internal/logging"
	"github.com/lockbox-mobile/lockbox/internal/vault/index"
	"github.com/lockbox-mobile/lockbox/internal/vault/projection"
	"github.com/lockbox-mobile/lockbox/internal/vault/session"
	"github.com/lockbox-mobile/lockbox/internal/vault/store"
	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

type App struct {
	config   *config.Config
	session  *session.Session
	gate     *session.PINGate
	proj     *projection.Projection
	keychain *keychain.SQLite
	log      logging.Logger
	reader   *bufio.Reader
}

// NewApp wires the whole stack: keychain, adapter, index, store, projection
// and session. The device key standing in for the OS keystore lives in a
// file next to the keychain database.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	deviceKey, err := loadDeviceKey(c.KeychainPath + ".key")
	if err != nil {
		return nil, fmt.Errorf("load device key: %w", err)
	}

	kc, err := keychain.OpenSQLite(ctx, c.KeychainPath, deviceKey)
	if err != nil {
		return nil, fmt.Errorf("open keychain: %w", err)
	}

	adapter := storage.NewAdapter(kc)
	st := store.New(adapter, index.NewManager(adapter), log)
	proj := projection.New(st)

	app := &App{
		config:   c,
		proj:     proj,
		keychain: kc,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}
	app.gate = session.NewPINGate(adapter, func(ctx context.Context) ([]byte, error) {
		return GetPassword(os.Stdout, "Enter PIN: ")
	})
	app.session = session.New(adapter, app.gate, st, proj, log)

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.keychain.Close(); err != nil {
		a.log.Error(context.Background(), "failed to close keychain", "error", err)
	}
}

// loadDeviceKey reads the at-rest encryption key, generating it on first
// run. File mode 0600 is the whole protection story here; real deployments
// use the platform keystore instead.
func loadDeviceKey(path string) ([]byte, error) {
	if b, err := os.ReadFile(path); err == nil {
		return b, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	key, err := cryptox.RandBytes(32)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}
