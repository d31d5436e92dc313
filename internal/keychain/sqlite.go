package keychain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/lockbox-mobile/lockbox/internal/cryptox"
	"github.com/lockbox-mobile/lockbox/internal/keychain/migrations"
)

// SQLite is a Keychain backed by a local SQLite file. Values are sealed with
// AES-GCM under the device key before they touch disk, matching the at-rest
// guarantee of the OS secure stores it stands in for.
type SQLite struct {
	db  *sql.DB
	key []byte
}

// OpenSQLite opens (creating if needed) the keychain database at dsn and
// applies pending schema migrations. deviceKey must be a valid AES key
// (16, 24 or 32 bytes).
func OpenSQLite(ctx context.Context, dsn string, deviceKey []byte) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open keychain db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate keychain db: %w", err)
	}

	return &SQLite{db: db, key: deviceKey}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	ciphertext, nonce, err := cryptox.Seal([]byte(value), s.key)
	if err != nil {
		return fmt.Errorf("failed to seal value: %w", err)
	}

	query := `INSERT INTO items (key, nonce, value) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET nonce = excluded.nonce, value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, nonce, ciphertext); err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT nonce, value FROM items WHERE key = ?`, key)

	var nonce, ciphertext []byte
	if err := row.Scan(&nonce, &ciphertext); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to select item: %w", err)
	}

	plaintext, err := cryptox.Open(ciphertext, nonce, s.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to open value for %q: %w", key, err)
	}
	return string(plaintext), true, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM items`)
	if err != nil {
		return nil, fmt.Errorf("failed to select keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
