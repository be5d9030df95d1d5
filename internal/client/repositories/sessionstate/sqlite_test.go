package sessionstate

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mkraev/carelink/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:sessionstate_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS session_state (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
DELETE FROM session_state;
`)
	require.NoError(t, err)
	return db
}

func TestLoad_EmptyReturnsNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := &Record{Ciphertext: []byte{1, 2, 3}, Nonce: []byte{9, 8, 7}}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// Save replaces the existing record.
	in2 := &Record{Ciphertext: []byte{4, 5}, Nonce: []byte{6}}
	require.NoError(t, repo.Save(ctx, in2))

	out, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in2, out)
}

func TestClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &Record{Ciphertext: []byte{1}, Nonce: []byte{2}}))
	require.NoError(t, repo.Clear(ctx))

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// Clearing an already empty store is fine.
	require.NoError(t, repo.Clear(ctx))
}
