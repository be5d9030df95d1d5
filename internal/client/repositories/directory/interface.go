package directory

import (
	"context"
	"time"

	"github.com/mkraev/carelink/internal/client/models"
)

// Repository caches the last fetched care-team directory so the list is
// available offline and between screen visits.
type Repository interface {
	// Replace swaps the whole cached snapshot for the given one.
	Replace(ctx context.Context, providers []models.Provider, fetchedAt time.Time) error

	// Snapshot returns the cached providers and when they were fetched.
	// An empty cache returns common.ErrorNotFound.
	Snapshot(ctx context.Context) ([]models.Provider, time.Time, error)
}
