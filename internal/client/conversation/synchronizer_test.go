package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/repositories/sessionstate"
	"github.com/mkraev/carelink/internal/client/services"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/cryptox"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---- fakes ----

type fakeMessageService struct {
	mu          sync.Mutex
	thread      []models.Message
	threadErr   error
	threadCalls int
	blockThread chan struct{} // when non-nil, Thread waits for it to close

	sendErr   error
	sendCalls int
	onSend    func(in services.SendInput)
}

func (f *fakeMessageService) Thread(ctx context.Context, threadID int64) ([]models.Message, error) {
	f.mu.Lock()
	f.threadCalls++
	block := f.blockThread
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	return append([]models.Message(nil), f.thread...), nil
}

func (f *fakeMessageService) Send(ctx context.Context, in services.SendInput) error {
	f.mu.Lock()
	f.sendCalls++
	onSend := f.onSend
	err := f.sendErr
	f.mu.Unlock()

	if onSend != nil {
		onSend(in)
	}
	return err
}

func (f *fakeMessageService) calls() (thread, send int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threadCalls, f.sendCalls
}

type memSessionRepo struct {
	mu  sync.Mutex
	rec *sessionstate.Record
}

func (r *memSessionRepo) Load(ctx context.Context) (*sessionstate.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil, common.ErrorNotFound
	}
	return r.rec, nil
}

func (r *memSessionRepo) Save(ctx context.Context, rec *sessionstate.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = rec
	return nil
}

func (r *memSessionRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = nil
	return nil
}

// ---- helpers ----

var (
	sealKey      = cryptox.DeriveSealKey([]byte("conv-secret"), []byte("conv-salt-123456"))
	testProvider = models.Provider{ID: 31, Name: "Dr. Osei", ThreadID: 5}
)

func stamped(id int64, body string, at time.Time) models.Message {
	return models.Message{ID: id, AuthorName: "Dr. Osei", Body: body, SentAt: &at}
}

func loggedInStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(context.Background(), &memSessionRepo{}, sealKey, nil, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Update(context.Background(), "tok", "ref", "pt-77", "Ada Osei"))
	return store
}

func seededThread(t *testing.T) (*Synchronizer, *fakeMessageService) {
	t.Helper()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &fakeMessageService{thread: []models.Message{
		stamped(1, "first", base),
		stamped(2, "second", base.Add(time.Hour)),
	}}
	s := NewSynchronizer(testProvider, svc, loggedInStore(t), nil)
	require.NoError(t, s.Load(context.Background()))
	return s, svc
}

// ---- tests ----

func TestLoad_StoresCanonicalList(t *testing.T) {
	s, _ := seededThread(t)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].ID)
	assert.NoError(t, s.LastError())
	assert.False(t, s.Loading())
}

func TestLoad_FailureClearsListAndRecordsError(t *testing.T) {
	s, svc := seededThread(t)

	boom := errors.New("boom")
	svc.mu.Lock()
	svc.threadErr = boom
	svc.mu.Unlock()

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Messages())
	assert.ErrorIs(t, s.LastError(), boom)
}

func TestLoad_SecondCallWhileInFlightIsNoOp(t *testing.T) {
	block := make(chan struct{})
	svc := &fakeMessageService{blockThread: block}
	s := NewSynchronizer(testProvider, svc, loggedInStore(t), nil)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	require.Eventually(t, s.Loading, time.Second, time.Millisecond)

	// The overlapping call must not issue a second network request.
	require.NoError(t, s.Load(context.Background()))
	threadCalls, _ := svc.calls()
	assert.Equal(t, 1, threadCalls)

	close(block)
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
}

func TestSend_AppendsPlaceholderBeforeRoundTrip(t *testing.T) {
	s, svc := seededThread(t)

	var observed []models.Message
	svc.mu.Lock()
	svc.onSend = func(in services.SendInput) {
		// Captured mid-submission: the optimistic state is already
		// visible even though nothing has completed.
		observed = s.Messages()

		assert.Equal(t, "pt-77", in.SubjectID)
		assert.Equal(t, int64(5), in.ThreadID)
		assert.Equal(t, int64(31), in.ProviderID)
	}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.thread = append(svc.thread, stamped(3, "hello", base.Add(2*time.Hour)))
	svc.mu.Unlock()

	require.NoError(t, s.Send(context.Background(), "hello", false, nil))

	require.Len(t, observed, 3)
	last := observed[2]
	assert.Equal(t, "hello", last.Body)
	assert.Equal(t, "Ada Osei", last.AuthorName)
	assert.True(t, last.Pending())
	assert.NotEqual(t, int64(1), last.ID)
	assert.NotEqual(t, int64(2), last.ID)
}

func TestSend_SuccessReconcilesWithoutDuplicates(t *testing.T) {
	s, svc := seededThread(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	confirmed := stamped(3, "hello", base.Add(2*time.Hour))
	svc.mu.Lock()
	svc.thread = append(svc.thread, confirmed)
	svc.mu.Unlock()

	require.NoError(t, s.Send(context.Background(), "hello", false, nil))

	msgs := s.Messages()
	require.Len(t, msgs, 3, "the placeholder must not survive reconciliation")
	assert.Equal(t, []int64{1, 2, 3}, []int64{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	for _, m := range msgs {
		assert.False(t, m.Pending())
	}
}

func TestSend_FailureKeepsPlaceholderAndSkipsReload(t *testing.T) {
	s, svc := seededThread(t)
	threadCallsBefore, _ := svc.calls()

	boom := errors.New("submission rejected")
	svc.mu.Lock()
	svc.sendErr = boom
	svc.mu.Unlock()

	err := s.Send(context.Background(), "hello", true, nil)
	assert.ErrorIs(t, err, boom)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[2].Pending(), "the placeholder stays so the patient's text survives")
	assert.Equal(t, "hello", msgs[2].Body)
	assert.ErrorIs(t, s.LastError(), boom)

	threadCallsAfter, _ := svc.calls()
	assert.Equal(t, threadCallsBefore, threadCallsAfter, "a failed send must not trigger a reload")
}

func TestSend_BlankTextIsNoOp(t *testing.T) {
	s, svc := seededThread(t)

	require.NoError(t, s.Send(context.Background(), "   \n\t", false, nil))

	_, sendCalls := svc.calls()
	assert.Equal(t, 0, sendCalls)
	assert.Len(t, s.Messages(), 2)
}

func TestSend_RequiresAuthentication(t *testing.T) {
	store, err := session.NewStore(context.Background(), &memSessionRepo{}, sealKey, nil, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	svc := &fakeMessageService{}
	s := NewSynchronizer(testProvider, svc, store, nil)

	assert.ErrorIs(t, s.Send(context.Background(), "hello", false, nil), common.ErrNotAuthenticated)
	assert.Empty(t, s.Messages(), "no placeholder may appear for a rejected send")
}

func TestDiscardPending_RemovesOnlyPlaceholders(t *testing.T) {
	s, svc := seededThread(t)

	svc.mu.Lock()
	svc.sendErr = errors.New("offline")
	svc.mu.Unlock()

	_ = s.Send(context.Background(), "draft one", false, nil)
	_ = s.Send(context.Background(), "draft two", false, nil)
	require.Len(t, s.Messages(), 4)

	s.DiscardPending()

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].ID)
	assert.Equal(t, int64(2), msgs[1].ID)
}

func TestPlaceholderIDs_AreNegativeAndDistinct(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := newPlaceholderID()
		assert.Negative(t, id)
		assert.False(t, seen[id], "placeholder ids should not repeat in practice")
		seen[id] = true
	}
}
