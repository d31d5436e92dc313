package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key, err := RandBytes(32)
	require.NoError(t, err)

	ciphertext, nonce, err := Seal([]byte("attack at dawn"), key)
	require.NoError(t, err)
	require.Len(t, nonce, 12)
	assert.NotEqual(t, []byte("attack at dawn"), ciphertext)

	plaintext, err := Open(ciphertext, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("attack at dawn"), plaintext)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key, err := RandBytes(32)
	require.NoError(t, err)
	other, err := RandBytes(32)
	require.NoError(t, err)

	ciphertext, nonce, err := Seal([]byte("secret"), key)
	require.NoError(t, err)

	_, err = Open(ciphertext, nonce, other)
	require.Error(t, err)
}

func TestSealJSON_RoundTrip(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}

	key, err := RandBytes(32)
	require.NoError(t, err)

	ciphertext, nonce, err := SealJSON(payload{Name: "gmail", N: 7}, key)
	require.NoError(t, err)

	var got payload
	require.NoError(t, OpenJSON(ciphertext, nonce, key, &got))
	assert.Equal(t, payload{Name: "gmail", N: 7}, got)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := DeriveKey([]byte("1234"), salt)
	k2 := DeriveKey([]byte("1234"), salt)
	k3 := DeriveKey([]byte("4321"), salt)

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, MakeVerifier(k1), MakeVerifier(k2))
	assert.NotEqual(t, MakeVerifier(k1), MakeVerifier(k3))
}
