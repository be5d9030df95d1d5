// Package sessionstate stores the sealed session record in the client
// database, one value per key in the session_state table.
package sessionstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/dbx"
)

const (
	keyCiphertext = "session"
	keyNonce      = "session_nonce"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Record, error) {
	rec := &Record{}

	var err error
	if rec.Ciphertext, err = r.get(ctx, keyCiphertext); err != nil {
		return nil, err
	}
	if rec.Nonce, err = r.get(ctx, keyNonce); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRepository) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session_state[%s]: %w", key, err)
	}
	return value, nil
}

// Save writes both halves of the record in one transaction, so a reader can
// never observe a ciphertext paired with a stale nonce.
func (r *SQLiteRepository) Save(ctx context.Context, rec *Record) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range map[string][]byte{
			keyCiphertext: rec.Ciphertext,
			keyNonce:      rec.Nonce,
		} {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO session_state (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, key, value)
			if err != nil {
				return fmt.Errorf("failed to set session_state[%s]: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_state`)
	if err != nil {
		return fmt.Errorf("failed to clear session_state: %w", err)
	}
	return nil
}
