// Package storage adapts the opaque keychain primitive into typed JSON
// reads and writes with per-record metadata sidecars.
//
// No retries happen here. Primitive failures are wrapped in
// common.ErrStorageRead / common.ErrStorageWrite and propagate to the
// caller, which decides recovery; an absent key is never an error.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lockbox-mobile/lockbox/internal/common"
	"github.com/lockbox-mobile/lockbox/internal/keychain"
	"github.com/lockbox-mobile/lockbox/internal/vault/models"
)

type Adapter struct {
	kc keychain.Keychain
}

func NewAdapter(kc keychain.Keychain) *Adapter {
	return &Adapter{kc: kc}
}

// Keychain exposes the underlying primitive for optional-interface upgrades
// (see keychain.Lister).
func (a *Adapter) Keychain() keychain.Keychain {
	return a.kc
}

// Put serializes value (strings pass through unchanged, everything else is
// JSON-marshaled) and writes it under key. The caller must not assume
// partial success on error.
func (a *Adapter) Put(ctx context.Context, key string, value any) error {
	s, ok := value.(string)
	if !ok {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %q: %w: %w", key, common.ErrStorageWrite, err)
		}
		s = string(b)
	}
	if err := a.kc.Set(ctx, key, s); err != nil {
		return fmt.Errorf("set %q: %w: %w", key, common.ErrStorageWrite, err)
	}
	return nil
}

// Get reads key and JSON-unmarshals the value into dest. It returns false
// when the key is absent, which is not an error.
func (a *Adapter) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := a.kc.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w: %w", key, common.ErrStorageRead, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("parse %q: %w: %w", key, common.ErrStorageRead, err)
	}
	return true, nil
}

// GetRaw reads key without parsing.
func (a *Adapter) GetRaw(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := a.kc.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w: %w", key, common.ErrStorageRead, err)
	}
	return raw, ok, nil
}

// Delete removes key. Deleting an absent key succeeds.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.kc.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w: %w", key, common.ErrStorageWrite, err)
	}
	return nil
}

// PutSidecar writes the "<id>_metadata" entry for a record. Sidecars must be
// kept in lockstep with their records; the store calls this on every
// create/update and DeleteSidecar on every delete.
func (a *Adapter) PutSidecar(ctx context.Context, id string, c models.Category, modified time.Time) error {
	sc := models.Sidecar{LastModified: models.Timestamp(modified), Category: c}
	return a.Put(ctx, models.SidecarKey(id), sc)
}

func (a *Adapter) GetSidecar(ctx context.Context, id string) (*models.Sidecar, bool, error) {
	var sc models.Sidecar
	ok, err := a.Get(ctx, models.SidecarKey(id), &sc)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &sc, true, nil
}

func (a *Adapter) DeleteSidecar(ctx context.Context, id string) error {
	return a.Delete(ctx, models.SidecarKey(id))
}
