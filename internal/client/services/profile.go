package services

import (
	"context"
	"fmt"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/session"
)

// ProfileService reads and updates the patient's own record. Update echoes
// the stored profile back, so what the caller gets is what the server kept.
type ProfileService interface {
	Get(ctx context.Context) (models.Profile, error)
	Update(ctx context.Context, profile models.Profile) (models.Profile, error)
}

type profileService struct {
	pipeline *api.Pipeline
	store    *session.Store
}

func NewProfileService(pipeline *api.Pipeline, store *session.Store) ProfileService {
	return &profileService{pipeline: pipeline, store: store}
}

func (p *profileService) Get(ctx context.Context) (models.Profile, error) {
	d, err := authorized(api.Get("/api/v1/profile"), p.store)
	if err != nil {
		return models.Profile{}, err
	}

	profile, err := api.ExecuteEnveloped[models.Profile](ctx, p.pipeline, d)
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (p *profileService) Update(ctx context.Context, profile models.Profile) (models.Profile, error) {
	d, err := authorized(api.Put("/api/v1/profile", profile), p.store)
	if err != nil {
		return models.Profile{}, err
	}

	updated, err := api.ExecuteEnveloped[models.Profile](ctx, p.pipeline, d)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}
