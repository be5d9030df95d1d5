package services

import (
	"context"
	"fmt"

	"github.com/mkraev/carelink/internal/client/api"
)

// DocumentService fetches legal documents, which the backend serves as raw
// HTML rather than enveloped JSON. Callers render the bytes themselves.
type DocumentService interface {
	Terms(ctx context.Context) (string, error)
	PrivacyPolicy(ctx context.Context) (string, error)
}

type documentService struct {
	pipeline *api.Pipeline
}

func NewDocumentService(pipeline *api.Pipeline) DocumentService {
	return &documentService{pipeline: pipeline}
}

func (d *documentService) Terms(ctx context.Context) (string, error) {
	return d.fetch(ctx, "/legal/terms")
}

func (d *documentService) PrivacyPolicy(ctx context.Context) (string, error) {
	return d.fetch(ctx, "/legal/privacy")
}

func (d *documentService) fetch(ctx context.Context, path string) (string, error) {
	raw, err := d.pipeline.ExecuteRaw(ctx, api.Get(path))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	return string(raw), nil
}
