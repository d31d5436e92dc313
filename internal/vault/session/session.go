// Package session owns the lifetime of one unlocked vault: the
// authentication gate, the setup flag, app settings and the premium flag.
//
// The session is an explicit object constructed at app start and torn down
// at logout, not an ambient singleton; screens receive it and the fakes they
// need for testing slot in through the Gate and Keychain seams.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/lockbox-mobile/lockbox/internal/common"
	"github.com/lockbox-mobile/lockbox/internal/logging"
	"github.com/lockbox-mobile/lockbox/internal/vault/projection"
	"github.com/lockbox-mobile/lockbox/internal/vault/store"
	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

const setupCompleteKey = "setupComplete"

type Session struct {
	adapter    *storage.Adapter
	gate       Gate
	store      *store.Store
	projection *projection.Projection
	settings   *Settings
	log        logging.Logger

	mu            sync.Mutex
	authenticated bool
}

func New(adapter *storage.Adapter, gate Gate, st *store.Store, proj *projection.Projection, log logging.Logger) *Session {
	return &Session{
		adapter:    adapter,
		gate:       gate,
		store:      st,
		projection: proj,
		settings:   NewSettings(adapter),
		log:        log.With("component", "session"),
	}
}

// SetupComplete reports whether first-run setup has finished. The flag is
// stored as the literal string "true", matching the mobile app's layout.
func (s *Session) SetupComplete(ctx context.Context) (bool, error) {
	raw, ok, err := s.adapter.GetRaw(ctx, setupCompleteKey)
	if err != nil {
		return false, err
	}
	return ok && raw == "true", nil
}

// CompleteSetup marks first-run setup done. When the gate is a PINGate the
// caller must Enroll before calling this.
func (s *Session) CompleteSetup(ctx context.Context) error {
	if err := s.adapter.Put(ctx, setupCompleteKey, "true"); err != nil {
		return err
	}
	if _, err := s.settings.Init(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "setup completed")
	return nil
}

// Unlock runs the gate and, on success, marks the session authenticated.
func (s *Session) Unlock(ctx context.Context) error {
	done, err := s.SetupComplete(ctx)
	if err != nil {
		return err
	}
	if !done {
		return common.ErrSetupIncomplete
	}

	ok, err := s.gate.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return common.ErrNotAuthenticated
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	s.log.Info(ctx, "session unlocked")
	return nil
}

// Lock ends the authenticated session and discards the projection. The
// auto-lock timer and explicit logout both land here; in-flight store
// operations are not aborted, only new ones are gated.
func (s *Session) Lock(ctx context.Context) {
	s.mu.Lock()
	s.authenticated = false
	s.mu.Unlock()

	s.projection.Reset()
	s.log.Info(ctx, "session locked")
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Store returns the record store, or ErrNotAuthenticated while locked.
// Every vault operation requires an already-authenticated session.
func (s *Session) Store() (*store.Store, error) {
	if !s.Authenticated() {
		return nil, common.ErrNotAuthenticated
	}
	return s.store, nil
}

// Projection returns the in-memory mirror, gated like Store.
func (s *Session) Projection() (*projection.Projection, error) {
	if !s.Authenticated() {
		return nil, common.ErrNotAuthenticated
	}
	return s.projection, nil
}

// Settings access is not gated: theme and auto-lock interval must be
// readable on the lock screen.
func (s *Session) Settings() *Settings {
	return s.settings
}

func (s *Session) Capabilities(ctx context.Context) (Capabilities, error) {
	return s.gate.Capabilities(ctx)
}
