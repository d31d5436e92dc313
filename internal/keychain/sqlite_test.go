package keychain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockbox-mobile/lockbox/internal/cryptox"
)

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()

	key, err := cryptox.RandBytes(32)
	require.NoError(t, err)

	dsn := filepath.Join(t.TempDir(), "keychain.db")
	kc, err := OpenSQLite(context.Background(), dsn, key)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kc.Close() })

	return kc
}

func TestSQLite_SetGetDelete(t *testing.T) {
	kc := setupSQLite(t)
	ctx := context.Background()

	_, ok, err := kc.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kc.Set(ctx, "k", `{"hello":"world"}`))
	v, ok, err := kc.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"hello":"world"}`, v)

	require.NoError(t, kc.Set(ctx, "k", "second"))
	v, _, _ = kc.Get(ctx, "k")
	assert.Equal(t, "second", v)

	require.NoError(t, kc.Delete(ctx, "k"))
	_, ok, err = kc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kc.Delete(ctx, "k"))
}

func TestSQLite_ValuesEncryptedAtRest(t *testing.T) {
	kc := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, kc.Set(ctx, "secret", "hunter2"))

	var stored []byte
	row := kc.db.QueryRowContext(ctx, `SELECT value FROM items WHERE key = ?`, "secret")
	require.NoError(t, row.Scan(&stored))
	assert.NotContains(t, string(stored), "hunter2")
}

func TestSQLite_WrongDeviceKeyFailsGet(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "keychain.db")

	key, err := cryptox.RandBytes(32)
	require.NoError(t, err)

	kc, err := OpenSQLite(ctx, dsn, key)
	require.NoError(t, err)
	require.NoError(t, kc.Set(ctx, "k", "v"))
	require.NoError(t, kc.Close())

	other, err := cryptox.RandBytes(32)
	require.NoError(t, err)

	kc2, err := OpenSQLite(ctx, dsn, other)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kc2.Close() })

	_, _, err = kc2.Get(ctx, "k")
	require.Error(t, err)
}

func TestSQLite_List(t *testing.T) {
	kc := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, kc.Set(ctx, "a", "1"))
	require.NoError(t, kc.Set(ctx, "b", "2"))

	keys, err := kc.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}
