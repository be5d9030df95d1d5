// Package conversation keeps one message thread consistent across
// optimistic local writes and the server's canonical state.
//
// The flow is deliberately two-phase: a new message is appended to the
// in-memory list immediately with a placeholder id, and after the server
// accepts the submission the whole list is refetched and replaced. The
// backend offers no stable way to correlate a placeholder with its
// server-assigned id, so replace-on-reconcile is the only merge that cannot
// duplicate a confirmed message.
package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/services"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/filex"
	"github.com/mkraev/carelink/internal/logging"
)

// messageType is the submission type for patient-initiated thread messages.
const messageType = "secure_message"

// Synchronizer owns the message list for one provider's thread. All state
// lives behind a single mutex, so observers always see either the state
// before a mutation or after it, never the middle.
type Synchronizer struct {
	mu       sync.Mutex
	messages []models.Message
	lastErr  error
	loading  bool

	provider models.Provider
	svc      services.MessageService
	store    *session.Store
	log      logging.Logger

	// test seams
	now           func() time.Time
	placeholderID func() int64
}

func NewSynchronizer(provider models.Provider, svc services.MessageService, store *session.Store, log logging.Logger) *Synchronizer {
	if log == nil {
		log = logging.Nop()
	}
	return &Synchronizer{
		provider:      provider,
		svc:           svc,
		store:         store,
		log:           log,
		now:           time.Now,
		placeholderID: newPlaceholderID,
	}
}

// newPlaceholderID generates a high-entropy negative id. Server ids are
// positive, so a placeholder can never collide with a confirmed message
// within the reconciliation window.
func newPlaceholderID() int64 {
	return -int64(uuid.New().ID()) - 1
}

// Load fetches the canonical list and replaces the in-memory one wholesale.
// While a load is already in flight the call is a no-op: not queued, not
// cancelled, and no second network request is issued.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	msgs, err := s.svc.Thread(ctx, s.provider.Thread())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.log.Warn(ctx, "thread load failed", "thread_id", s.provider.Thread(), "error", err)
		s.lastErr = err
		s.messages = nil
		return err
	}

	s.messages = msgs
	s.lastErr = nil
	return nil
}

// Send appends an optimistic placeholder, submits the message, and on
// success reconciles by reloading the canonical list. On failure the
// placeholder stays visible and the error is recorded: sends are never
// rolled back automatically, so the patient's text is not destroyed. The
// caller may retry Send or call DiscardPending explicitly.
//
// Text that is empty after trimming is a no-op.
func (s *Synchronizer) Send(ctx context.Context, text string, urgent bool, attachment *filex.Attachment) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	cur := s.store.Current()
	if !cur.Authenticated() {
		return common.ErrNotAuthenticated
	}

	placeholder := models.Message{
		ID:         s.placeholderID(),
		AuthorName: cur.DisplayName,
		Body:       text,
		Urgent:     urgent,
	}
	sentAt := s.now()
	placeholder.SentAt = &sentAt
	if attachment != nil {
		placeholder.AttachmentPath = attachment.Name
	}

	// Optimistic write: visible before any network round trip.
	s.mu.Lock()
	s.messages = append(s.messages, placeholder)
	s.mu.Unlock()

	err := s.svc.Send(ctx, services.SendInput{
		SubjectID:  cur.SubjectID,
		ThreadID:   s.provider.Thread(),
		ProviderID: s.provider.ID,
		Type:       messageType,
		Body:       text,
		Urgent:     urgent,
		Attachment: attachment,
	})
	if err != nil {
		s.log.Warn(ctx, "message submission failed, keeping placeholder",
			"thread_id", s.provider.Thread(), "error", err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	// Reconcile: the refetched list replaces everything, which removes
	// the placeholder and installs the server-assigned id and timestamp.
	return s.Load(ctx)
}

// Messages returns a snapshot of the current list, ordered by send time.
func (s *Synchronizer) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// LastError returns the most recent load or send failure, or nil.
func (s *Synchronizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether a load is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Provider returns the directory entry this synchronizer is bound to.
func (s *Synchronizer) Provider() models.Provider {
	return s.provider
}

// DiscardPending removes unconfirmed placeholders. This is the explicit
// "clear the field" action; it is never triggered automatically.
func (s *Synchronizer) DiscardPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0]
	for _, m := range s.messages {
		if !m.Pending() {
			kept = append(kept, m)
		}
	}
	s.messages = kept
}
