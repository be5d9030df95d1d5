// Package storage opens the client database and runs its migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/mkraev/carelink/internal/client/migrations"
	"github.com/mkraev/carelink/internal/common"
)

// secretFileName holds the per-install random secret the session record is
// sealed with. It lives next to the database file.
const secretFileName = "client.secret"

const (
	secretLen = 32
	saltLen   = 16
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the sqlite client database at dsn and
// brings its schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// LoadOrCreateSecret returns the per-install sealing secret and salt stored
// in dir, generating and persisting fresh ones on first run.
func LoadOrCreateSecret(dir string) (secret, salt []byte, err error) {
	path := filepath.Join(dir, secretFileName)

	data, err := os.ReadFile(path)
	if err == nil && len(data) == secretLen+saltLen {
		return data[:secretLen], data[secretLen:], nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Missing or truncated: start over. A damaged secret only means the
	// previously persisted session can no longer be opened, which the
	// session store already treats as "not logged in".
	secret = common.GenerateRandByteArray(secretLen)
	salt = common.GenerateRandByteArray(saltLen)

	if err := os.WriteFile(path, append(append([]byte{}, secret...), salt...), 0o600); err != nil {
		return nil, nil, fmt.Errorf("write %s: %w", path, err)
	}
	return secret, salt, nil
}
