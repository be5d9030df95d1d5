package directory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:directory_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS directory (
  id         INTEGER PRIMARY KEY,
  name       TEXT NOT NULL,
  specialty  TEXT NOT NULL DEFAULT '',
  thread_id  INTEGER NOT NULL DEFAULT 0,
  fetched_at TIMESTAMP NOT NULL
);
DELETE FROM directory;
`)
	require.NoError(t, err)
	return db
}

func TestSnapshot_EmptyReturnsNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	_, _, err := repo.Snapshot(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestReplaceAndSnapshot(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	fetched := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	first := []models.Provider{
		{ID: 2, Name: "Dr. Zhou", Specialty: "Cardiology", ThreadID: 12},
		{ID: 1, Name: "Dr. Osei", Specialty: "Primary care", ThreadID: 11},
	}
	require.NoError(t, repo.Replace(ctx, first, fetched))

	got, at, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched, at.UTC())
	require.Len(t, got, 2)
	assert.Equal(t, "Dr. Osei", got[0].Name, "snapshot is ordered by name")

	// A second Replace swaps the snapshot wholesale.
	second := []models.Provider{{ID: 3, Name: "Dr. Silva", ThreadID: 13}}
	require.NoError(t, repo.Replace(ctx, second, fetched.Add(time.Hour)))

	got, at, err = repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, fetched.Add(time.Hour), at.UTC())
}
