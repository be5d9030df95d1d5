package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/repositories/directory"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/logging"
)

// ProviderService serves the care-team directory: a fresh fetch per screen
// visit, with the last snapshot cached locally for offline display.
type ProviderService interface {
	List(ctx context.Context) ([]models.Provider, error)
	Cached(ctx context.Context) ([]models.Provider, time.Time, error)
}

type providerService struct {
	pipeline *api.Pipeline
	store    *session.Store
	cache    directory.Repository
	now      func() time.Time
	log      logging.Logger
}

func NewProviderService(pipeline *api.Pipeline, store *session.Store, cache directory.Repository, log logging.Logger) ProviderService {
	if log == nil {
		log = logging.Nop()
	}
	return &providerService{pipeline: pipeline, store: store, cache: cache, now: time.Now, log: log}
}

func (p *providerService) List(ctx context.Context) ([]models.Provider, error) {
	d, err := authorized(api.Get("/api/v1/providers"), p.store)
	if err != nil {
		return nil, err
	}

	providers, err := api.ExecuteEnveloped[[]models.Provider](ctx, p.pipeline, d)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	// Cache writes are best effort; a failed write must not hide a
	// successful fetch.
	if p.cache != nil {
		if err := p.cache.Replace(ctx, providers, p.now()); err != nil {
			p.log.Warn(ctx, "directory cache write failed", "error", err)
		}
	}

	return providers, nil
}

func (p *providerService) Cached(ctx context.Context) ([]models.Provider, time.Time, error) {
	return p.cache.Snapshot(ctx)
}
