package store

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockbox-mobile/lockbox/internal/common"
	"github.com/lockbox-mobile/lockbox/internal/keychain"
	"github.com/lockbox-mobile/lockbox/internal/logging"
	"github.com/lockbox-mobile/lockbox/internal/vault/index"
	"github.com/lockbox-mobile/lockbox/internal/vault/models"
	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

func setupStore(t *testing.T) (*Store, *storage.Adapter, *index.Manager) {
	t.Helper()
	adapter := storage.NewAdapter(keychain.NewMemory())
	idx := index.NewManager(adapter)
	log := logging.NewDefault(io.Discard, "error")
	return New(adapter, idx, log), adapter, idx
}

var idPattern = regexp.MustCompile(`^[0-9a-z]+-[0-9a-z]+$`)

func TestCreate_RoundTrip(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	fields := map[string]string{"title": "Gmail", "username": "a@b.com", "password": "x"}
	created, err := s.Create(ctx, models.CategoryCredential, fields)
	require.NoError(t, err)

	assert.Regexp(t, idPattern, created.ID)
	assert.Equal(t, models.CategoryCredential, created.Category)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.NotEmpty(t, created.CreatedAt)

	got, err := s.ReadOne(ctx, models.CategoryCredential, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, got)
	assert.Equal(t, fields, got.Fields)
}

func TestCreate_ValidationFailureTouchesNothing(t *testing.T) {
	s, adapter, idx := setupStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "no content"})
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "content", ve.Field)

	keys, err := idx.Keys(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Empty(t, keys)

	lister := adapter.Keychain().(keychain.Lister)
	all, err := lister.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_UnknownCategory(t *testing.T) {
	s, _, _ := setupStore(t)

	_, err := s.Create(context.Background(), models.Category("archive"), map[string]string{"title": "x"})
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "category", ve.Field)
}

func TestCreateVariant(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	rec, err := s.CreateVariant(ctx, models.Note{Title: "shopping", Content: "milk"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryNote, rec.Category)
	assert.Equal(t, "milk", rec.Fields["content"])

	_, err = s.CreateVariant(ctx, models.Credential{})
	require.Error(t, err)
}

func TestIndexConsistency_AfterEachOperation(t *testing.T) {
	s, _, idx := setupStore(t)
	ctx := context.Background()

	check := func() {
		t.Helper()
		keys, err := idx.Keys(ctx, models.CategoryNote)
		require.NoError(t, err)
		for _, id := range keys {
			rec, err := s.ReadOne(ctx, models.CategoryNote, id)
			require.NoError(t, err)
			require.NotNil(t, rec, "indexed id %q must be retrievable", id)
		}
		all, err := s.ReadAll(ctx, models.CategoryNote)
		require.NoError(t, err)
		require.Len(t, all, len(keys))
	}

	var ids []string
	for i := 0; i < 4; i++ {
		rec, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t", "content": "c"})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
		check()
	}

	require.NoError(t, s.Delete(ctx, models.CategoryNote, ids[1]))
	check()
	require.NoError(t, s.Delete(ctx, models.CategoryNote, ids[3]))
	check()

	_, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t2", "content": "c2"})
	require.NoError(t, err)
	check()
}

func TestDelete_Idempotent(t *testing.T) {
	s, _, idx := setupStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t", "content": "c"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, models.CategoryNote, rec.ID))

	keysAfterFirst, err := idx.Keys(ctx, models.CategoryNote)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, models.CategoryNote, rec.ID))

	keysAfterSecond, err := idx.Keys(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Equal(t, keysAfterFirst, keysAfterSecond)

	got, err := s.ReadOne(ctx, models.CategoryNote, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.CategoryCredential, map[string]string{
		"title": "Gmail", "username": "a@b.com", "password": "old",
	})
	require.NoError(t, err)

	// make sure a second-resolution timestamp can move
	s.now = func() time.Time { return time.Now().Add(2 * time.Second) }

	updated, err := s.Update(ctx, models.CategoryCredential, created.ID, map[string]string{"password": "new"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.NotEqual(t, created.UpdatedAt, updated.UpdatedAt)
	assert.Equal(t, "new", updated.Fields["password"])
	assert.Equal(t, "Gmail", updated.Fields["title"])
	assert.Equal(t, "a@b.com", updated.Fields["username"])

	got, err := s.ReadOne(ctx, models.CategoryCredential, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _, _ := setupStore(t)

	_, err := s.Update(context.Background(), models.CategoryNote, "nope", map[string]string{"title": "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_CannotCrossCategories(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t", "content": "c"})
	require.NoError(t, err)

	_, err = s.Update(ctx, models.CategoryCredential, rec.ID, map[string]string{"password": "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCategoryIsolation(t *testing.T) {
	s, _, idx := setupStore(t)
	ctx := context.Background()

	cred, err := s.Create(ctx, models.CategoryCredential, map[string]string{"title": "Gmail"})
	require.NoError(t, err)
	note, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "n", "content": "c"})
	require.NoError(t, err)

	notes, err := s.ReadAll(ctx, models.CategoryNote)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	// wiping one category leaves the other untouched
	require.NoError(t, s.Delete(ctx, models.CategoryCredential, cred.ID))

	noteKeys, err := idx.Keys(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Equal(t, []string{note.ID}, noteKeys)
}

func TestScenario_CredentialLifecycle(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.CategoryCredential, map[string]string{
		"title": "Gmail", "username": "a@b.com", "password": "x",
	})
	require.NoError(t, err)
	assert.Regexp(t, idPattern, created.ID)

	all, err := s.ReadAll(ctx, models.CategoryCredential)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Gmail", all[0].Fields["title"])
	assert.Equal(t, "a@b.com", all[0].Fields["username"])
	assert.Equal(t, "x", all[0].Fields["password"])

	require.NoError(t, s.Delete(ctx, models.CategoryCredential, created.ID))

	all, err = s.ReadAll(ctx, models.CategoryCredential)
	require.NoError(t, err)
	assert.Empty(t, all)

	got, err := s.ReadOne(ctx, models.CategoryCredential, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadAll_SelfHealsDanglingEntries(t *testing.T) {
	s, adapter, idx := setupStore(t)
	ctx := context.Background()

	keep, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "keep", "content": "c"})
	require.NoError(t, err)
	gone, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "gone", "content": "c"})
	require.NoError(t, err)

	// remove the record behind the index's back
	require.NoError(t, adapter.Delete(ctx, gone.ID))

	all, err := s.ReadAll(ctx, models.CategoryNote)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	// healed: the dangling id is out of the durable index
	keys, err := idx.Keys(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, keys)

	// the policy holds across repeated calls
	all, err = s.ReadAll(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepair_RelinksOrphanedRecord(t *testing.T) {
	s, _, idx := setupStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t", "content": "c"})
	require.NoError(t, err)

	// simulate a crash after record+sidecar write, before the index write
	require.NoError(t, idx.RemoveKey(ctx, models.CategoryNote, rec.ID))

	all, err := s.ReadAll(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.Repair(ctx, models.CategoryNote))

	all, err = s.ReadAll(ctx, models.CategoryNote)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, rec.ID, all[0].ID)
}

func TestRepair_DoesNotCrossCategories(t *testing.T) {
	s, _, idx := setupStore(t)
	ctx := context.Background()

	note, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t", "content": "c"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.CategoryCredential, map[string]string{"title": "Gmail"})
	require.NoError(t, err)

	require.NoError(t, idx.RemoveKey(ctx, models.CategoryNote, note.ID))
	require.NoError(t, s.Repair(ctx, models.CategoryCredential))

	// the orphaned note must not leak into the credential index
	credKeys, err := idx.Keys(ctx, models.CategoryCredential)
	require.NoError(t, err)
	assert.Len(t, credKeys, 1)
	assert.NotContains(t, credKeys, note.ID)
}

func TestRestore_PreservesIDAndTimestamps(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	rec := &models.Record{
		ID:        "kz9x1-abcdef",
		Category:  models.CategoryNote,
		Fields:    map[string]string{"title": "t", "content": "c"},
		CreatedAt: "2025-12-01T00:00:00Z",
		UpdatedAt: "2025-12-02T00:00:00Z",
	}
	require.NoError(t, s.Restore(ctx, rec))

	got, err := s.ReadOne(ctx, models.CategoryNote, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
	assert.Equal(t, rec.UpdatedAt, got.UpdatedAt)

	all, err := s.ReadAll(ctx, models.CategoryNote)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReadOne_IgnoresIndex(t *testing.T) {
	s, _, idx := setupStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, models.CategoryNote, map[string]string{"title": "t", "content": "c"})
	require.NoError(t, err)

	require.NoError(t, idx.RemoveKey(ctx, models.CategoryNote, rec.ID))

	got, err := s.ReadOne(ctx, models.CategoryNote, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}
