package session

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/lockbox-mobile/lockbox/internal/common"
	"github.com/lockbox-mobile/lockbox/internal/cryptox"
	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

// Capabilities describes what the device's authentication hardware offers.
type Capabilities struct {
	HasHardware    bool
	Enrolled       bool
	HasFaceID      bool
	HasFingerprint bool
}

// Gate is the biometric/PIN authentication boundary. The vault core never
// implements biometrics itself; it only needs a yes/no answer before
// unlocking a session. Mobile builds wrap the OS prompt; PINGate is the
// portable fallback.
type Gate interface {
	Authenticate(ctx context.Context) (bool, error)
	Capabilities(ctx context.Context) (Capabilities, error)
}

const pinVerifierKey = "pinVerifier"

// pinVerifier is the persisted verification material. Only a salted argon2id
// digest is stored; the PIN itself never touches storage.
type pinVerifier struct {
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

// PINGate authenticates by deriving a key from a user-supplied PIN and
// comparing it against the stored verifier. The PIN is obtained through the
// prompt callback so the gate stays independent of the UI.
type PINGate struct {
	adapter *storage.Adapter
	prompt  func(ctx context.Context) ([]byte, error)
}

func NewPINGate(adapter *storage.Adapter, prompt func(ctx context.Context) ([]byte, error)) *PINGate {
	return &PINGate{adapter: adapter, prompt: prompt}
}

// Enroll derives and stores the verifier for pin. The pin slice is wiped
// before returning.
func (g *PINGate) Enroll(ctx context.Context, pin []byte) error {
	defer common.WipeByteArray(pin)

	salt, err := cryptox.RandBytes(16)
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key := cryptox.DeriveKey(pin, salt)
	defer common.WipeByteArray(key)

	v := pinVerifier{Salt: salt, Verifier: cryptox.MakeVerifier(key)}
	return g.adapter.Put(ctx, pinVerifierKey, v)
}

func (g *PINGate) Authenticate(ctx context.Context) (bool, error) {
	var v pinVerifier
	ok, err := g.adapter.Get(ctx, pinVerifierKey, &v)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, common.ErrSetupIncomplete
	}

	pin, err := g.prompt(ctx)
	if err != nil {
		return false, err
	}
	defer common.WipeByteArray(pin)

	key := cryptox.DeriveKey(pin, v.Salt)
	defer common.WipeByteArray(key)

	match := subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), v.Verifier) == 1
	return match, nil
}

// Capabilities for a PIN gate: no biometric hardware, enrolled once a
// verifier exists.
func (g *PINGate) Capabilities(ctx context.Context) (Capabilities, error) {
	_, ok, err := g.adapter.GetRaw(ctx, pinVerifierKey)
	if err != nil {
		return Capabilities{}, err
	}
	return Capabilities{Enrolled: ok}, nil
}
