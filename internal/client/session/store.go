package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkraev/carelink/internal/client/repositories/sessionstate"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/cryptox"
	"github.com/mkraev/carelink/internal/logging"
	"github.com/mkraev/carelink/internal/signalx"
)

// Store is the single source of truth for "is the patient logged in".
// It is constructed once at process start, holds the current Session in
// memory, persists every mutation before returning, and clears itself when
// the session-invalidated signal fires.
//
// All mutations go through Update and Clear; readers get value snapshots
// and can never observe a partially updated session.
type Store struct {
	mu      sync.RWMutex
	current Session

	repo    sessionstate.Repository
	sealKey []byte
	unsub   func()
	log     logging.Logger
}

// NewStore loads the persisted session (missing or unreadable state means
// "not logged in", never an error) and subscribes to the invalidation bus.
// Call Close at process exit to drop the subscription.
func NewStore(ctx context.Context, repo sessionstate.Repository, sealKey []byte, invalidated *signalx.Bus, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}

	s := &Store{repo: repo, sealKey: sealKey, log: log}
	s.current = s.restore(ctx)

	if invalidated != nil {
		s.unsub = invalidated.Subscribe(func() {
			// The broadcast carries no context; tearing down the
			// session must not be tied to the failed request's one.
			if err := s.Clear(context.Background()); err != nil {
				s.log.Error(context.Background(), "failed to clear session on invalidation", "error", err)
			}
		})
	}

	return s, nil
}

func (s *Store) restore(ctx context.Context) Session {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "persisted session unreadable, starting unauthenticated", "error", err)
		}
		return Session{}
	}

	var sess Session
	if err := cryptox.OpenRecord(rec.Ciphertext, rec.Nonce, s.sealKey, &sess); err != nil {
		s.log.Warn(ctx, "persisted session failed to unseal, starting unauthenticated", "error", err)
		return Session{}
	}
	return sess
}

// Current returns a snapshot of the in-memory session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update atomically replaces all four fields, persisting the sealed record
// before the new state becomes observable.
func (s *Store) Update(ctx context.Context, accessToken, refreshToken, subjectID, displayName string) error {
	next := Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SubjectID:    subjectID,
		DisplayName:  displayName,
	}

	ciphertext, nonce, err := cryptox.SealRecord(next, s.sealKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, &sessionstate.Record{Ciphertext: ciphertext, Nonce: nonce}); err != nil {
		return err
	}
	s.current = next
	return nil
}

// Clear wipes all four fields and removes the persisted state. Safe to call
// from any goroutine, and idempotent: an already empty session does nothing,
// so a burst of concurrent 401s tears the session down exactly once.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.IsZero() {
		return nil
	}

	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.current = Session{}
	s.log.Info(ctx, "session cleared")
	return nil
}

// Close drops the invalidation subscription. The store must not be used
// afterwards.
func (s *Store) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// TokenExpiresAt peeks at the access token's exp claim without verifying
// the signature (the client has no key material to verify with; the server
// remains the authority). Returns false when there is no token or no
// parsable expiry.
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	tok := s.Current().AccessToken
	if tok == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
