package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/repositories/sessionstate"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/cryptox"
	"github.com/mkraev/carelink/internal/signalx"
)

// ---- fakes ----

type fakeSessionRepo struct {
	mu  sync.Mutex
	rec *sessionstate.Record
}

func (r *fakeSessionRepo) Load(ctx context.Context) (*sessionstate.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil, common.ErrorNotFound
	}
	return r.rec, nil
}

func (r *fakeSessionRepo) Save(ctx context.Context, rec *sessionstate.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = rec
	return nil
}

func (r *fakeSessionRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = nil
	return nil
}

type fakeDirectoryRepo struct {
	mu        sync.Mutex
	providers []models.Provider
	fetchedAt time.Time
	replaces  int
	replErr   error
}

func (r *fakeDirectoryRepo) Replace(ctx context.Context, providers []models.Provider, fetchedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replErr != nil {
		return r.replErr
	}
	r.replaces++
	r.providers = providers
	r.fetchedAt = fetchedAt
	return nil
}

func (r *fakeDirectoryRepo) Snapshot(ctx context.Context) ([]models.Provider, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.providers) == 0 {
		return nil, time.Time{}, common.ErrorNotFound
	}
	return r.providers, r.fetchedAt, nil
}

// ---- environment ----

var testSealKey = cryptox.DeriveSealKey([]byte("svc-secret"), []byte("svc-salt-1234567"))

type env struct {
	pipeline *api.Pipeline
	store    *session.Store
	bus      *signalx.Bus
}

func newEnv(t *testing.T, handler http.HandlerFunc) *env {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	bus := signalx.NewBus()
	p, err := api.NewPipeline(srv.URL, srv.Client(), bus, nil)
	require.NoError(t, err)

	store, err := session.NewStore(context.Background(), &fakeSessionRepo{}, testSealKey, bus, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return &env{pipeline: p, store: store, bus: bus}
}

func (e *env) loginAs(t *testing.T, subjectID string) {
	t.Helper()
	require.NoError(t, e.store.Update(context.Background(), "test-access-token", "test-refresh-token", subjectID, "Ada Osei"))
}
