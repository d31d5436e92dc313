package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

const (
	appSettingsKey   = "appSettings"
	premiumStatusKey = "premiumStatus"
)

// AppSettings is the "appSettings" singleton. AutoLockTimeout is kept in
// milliseconds for layout compatibility with the mobile app.
type AppSettings struct {
	Theme               string `json:"theme"`
	AutoLockTimeout     int    `json:"autoLockTimeout"`
	ShowBiometricPrompt bool   `json:"showBiometricPrompt"`
	MaskSensitiveData   bool   `json:"maskSensitiveData"`
	InstallID           string `json:"installId,omitempty"`
}

func defaultSettings() AppSettings {
	return AppSettings{
		Theme:               "light",
		AutoLockTimeout:     300000, // 5 minutes
		ShowBiometricPrompt: true,
		MaskSensitiveData:   true,
	}
}

type Settings struct {
	adapter *storage.Adapter
}

func NewSettings(adapter *storage.Adapter) *Settings {
	return &Settings{adapter: adapter}
}

// Init returns the persisted settings, writing (and returning) defaults on
// first run. The install id is minted exactly once.
func (s *Settings) Init(ctx context.Context) (AppSettings, error) {
	var stored AppSettings
	ok, err := s.adapter.Get(ctx, appSettingsKey, &stored)
	if err != nil {
		return AppSettings{}, err
	}
	if ok {
		return stored, nil
	}

	defaults := defaultSettings()
	defaults.InstallID = uuid.NewString()
	if err := s.adapter.Put(ctx, appSettingsKey, defaults); err != nil {
		return AppSettings{}, err
	}
	return defaults, nil
}

// Update persists the given settings wholesale. Callers read-modify-write
// through Init; the settings singleton has no per-field merge.
func (s *Settings) Update(ctx context.Context, settings AppSettings) error {
	return s.adapter.Put(ctx, appSettingsKey, settings)
}

// Reset restores defaults but keeps the install id.
func (s *Settings) Reset(ctx context.Context) (AppSettings, error) {
	current, err := s.Init(ctx)
	if err != nil {
		return AppSettings{}, err
	}

	defaults := defaultSettings()
	defaults.InstallID = current.InstallID
	if err := s.adapter.Put(ctx, appSettingsKey, defaults); err != nil {
		return AppSettings{}, err
	}
	return defaults, nil
}

// IsPremium reads the "premiumStatus" flag; absent means false.
func (s *Settings) IsPremium(ctx context.Context) (bool, error) {
	raw, ok, err := s.adapter.GetRaw(ctx, premiumStatusKey)
	if err != nil {
		return false, err
	}
	return ok && raw == "true", nil
}

func (s *Settings) SetPremium(ctx context.Context, premium bool) error {
	v := "false"
	if premium {
		v = "true"
	}
	return s.adapter.Put(ctx, premiumStatusKey, v)
}
