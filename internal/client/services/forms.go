package services

import (
	"context"
	"fmt"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/session"
)

// FormService lists assigned intake/consent forms and submits answers.
type FormService interface {
	List(ctx context.Context) ([]models.Form, error)
	Submit(ctx context.Context, submission models.FormSubmission) error
}

type formService struct {
	pipeline *api.Pipeline
	store    *session.Store
}

func NewFormService(pipeline *api.Pipeline, store *session.Store) FormService {
	return &formService{pipeline: pipeline, store: store}
}

func (f *formService) List(ctx context.Context) ([]models.Form, error) {
	d, err := authorized(api.Get("/api/v1/forms"), f.store)
	if err != nil {
		return nil, err
	}

	forms, err := api.ExecuteEnveloped[[]models.Form](ctx, f.pipeline, d)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}

func (f *formService) Submit(ctx context.Context, submission models.FormSubmission) error {
	if submission.FormID <= 0 {
		return fmt.Errorf("form id %d invalid", submission.FormID)
	}

	d, err := authorized(api.Post("/api/v1/forms/submit", submission), f.store)
	if err != nil {
		return err
	}

	if _, err := api.ExecuteEnveloped[map[string]any](ctx, f.pipeline, d); err != nil {
		return fmt.Errorf("submit form %d: %w", submission.FormID, err)
	}
	return nil
}
