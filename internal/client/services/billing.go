package services

import (
	"context"
	"fmt"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/session"
)

// BillingService lists billing statements.
type BillingService interface {
	Statements(ctx context.Context) ([]models.Statement, error)
}

type billingService struct {
	pipeline *api.Pipeline
	store    *session.Store
}

func NewBillingService(pipeline *api.Pipeline, store *session.Store) BillingService {
	return &billingService{pipeline: pipeline, store: store}
}

func (b *billingService) Statements(ctx context.Context) ([]models.Statement, error) {
	d, err := authorized(api.Get("/api/v1/billing/statements"), b.store)
	if err != nil {
		return nil, err
	}

	statements, err := api.ExecuteEnveloped[[]models.Statement](ctx, b.pipeline, d)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	return statements, nil
}
