// Package backup exports the vault to a single passphrase-encrypted file
// and restores it. Export files are local only; uploading them anywhere is
// the unimplemented premium "cloud backup" feature.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lockbox-mobile/lockbox/internal/common"
	"github.com/lockbox-mobile/lockbox/internal/cryptox"
	"github.com/lockbox-mobile/lockbox/internal/vault/models"
	"github.com/lockbox-mobile/lockbox/internal/vault/store"
)

const archiveVersion = 1

// Archive is the plaintext payload sealed inside an export file.
type Archive struct {
	Version   int                                 `json:"version"`
	CreatedAt string                              `json:"createdAt"`
	Records   map[models.Category][]models.Record `json:"records"`
}

// envelope is the on-disk file format. Byte fields serialize as base64.
type envelope struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Payload []byte `json:"payload"`
}

// Export reads every category from st, seals the archive with a key derived
// from passphrase and writes it to dir under a random file name. The
// passphrase is wiped before returning. The created path is returned.
func Export(ctx context.Context, st *store.Store, dir string, passphrase []byte) (string, error) {
	defer common.WipeByteArray(passphrase)

	archive := Archive{
		Version:   archiveVersion,
		CreatedAt: models.Timestamp(time.Now()),
		Records:   make(map[models.Category][]models.Record, len(models.Categories)),
	}
	for _, c := range models.Categories {
		records, err := st.ReadAll(ctx, c)
		if err != nil {
			return "", fmt.Errorf("export %s: %w", c, err)
		}
		archive.Records[c] = records
	}

	salt, err := cryptox.RandBytes(16)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.SealJSON(archive, key)
	if err != nil {
		return "", fmt.Errorf("seal archive: %w", err)
	}

	b, err := json.Marshal(envelope{Version: archiveVersion, Salt: salt, Nonce: nonce, Payload: ciphertext})
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.NewString()+".vaultbak")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// Import opens the export file at path with passphrase and replays every
// archived record through the store, preserving ids and timestamps. Existing
// records with the same id are overwritten. The passphrase is wiped before
// returning.
func Import(ctx context.Context, st *store.Store, path string, passphrase []byte) (int, error) {
	defer common.WipeByteArray(passphrase)

	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return 0, fmt.Errorf("parse backup: %w", err)
	}

	key := cryptox.DeriveKey(passphrase, env.Salt)
	defer common.WipeByteArray(key)

	var archive Archive
	if err := cryptox.OpenJSON(env.Payload, env.Nonce, key, &archive); err != nil {
		return 0, common.ErrInvalidPassphrase
	}
	if archive.Version != archiveVersion {
		return 0, fmt.Errorf("unsupported backup version %d", archive.Version)
	}

	count := 0
	for _, records := range archive.Records {
		for i := range records {
			if err := st.Restore(ctx, &records[i]); err != nil {
				return count, fmt.Errorf("restore %q: %w", records[i].ID, err)
			}
			count++
		}
	}
	return count, nil
}
