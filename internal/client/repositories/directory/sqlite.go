// Package directory persists the provider directory cache in the client
// database.
package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Replace(ctx context.Context, providers []models.Provider, fetchedAt time.Time) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM directory`); err != nil {
			return fmt.Errorf("failed to clear directory: %w", err)
		}
		for _, p := range providers {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO directory (id, name, specialty, thread_id, fetched_at)
				VALUES (?, ?, ?, ?, ?)
			`, p.ID, p.Name, p.Specialty, p.ThreadID, fetchedAt.UTC())
			if err != nil {
				return fmt.Errorf("failed to insert directory[%d]: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Snapshot(ctx context.Context) ([]models.Provider, time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, specialty, thread_id, fetched_at FROM directory ORDER BY name
	`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query directory: %w", err)
	}
	defer rows.Close()

	var providers []models.Provider
	var fetchedAt time.Time
	for rows.Next() {
		var p models.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Specialty, &p.ThreadID, &fetchedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan directory row: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate directory rows: %w", err)
	}

	if len(providers) == 0 {
		return nil, time.Time{}, common.ErrorNotFound
	}
	return providers, fetchedAt, nil
}
