package orphan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"signup/internal/audit"
	"signup/pkg/platform/sentinel"
)

type fakeDeleter struct {
	mu    sync.Mutex
	errs  map[string]error
	calls []string
}

func (f *fakeDeleter) DeleteAccount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return f.errs[id]
}

type ReconcilerSuite struct {
	suite.Suite
	ctx        context.Context
	store      *InMemoryStore
	deleter    *fakeDeleter
	auditStore *audit.InMemoryStore
	reconciler *Reconciler
	now        time.Time
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.store = NewInMemoryStore()
	s.deleter = &fakeDeleter{errs: map[string]error{}}
	s.auditStore = audit.NewInMemoryStore()
	s.reconciler = NewReconciler(s.store, s.deleter,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.auditStore)),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ReconcilerSuite) seed(id string, recordedAt time.Time) {
	s.Require().NoError(s.store.Record(s.ctx, Record{
		IdentityID: id, Username: "user-" + id, Identifier: id + "@example.com",
		Reason: "insert failed", Attempts: 3, RecordedAt: recordedAt,
	}))
}

func (s *ReconcilerSuite) TestResolvesDeletedAndMissingIdentities() {
	s.seed("a", s.now.Add(-2*time.Hour))
	s.seed("b", s.now.Add(-time.Hour))
	s.deleter.errs["b"] = &testNotFound{}

	summary, err := s.reconciler.Reconcile(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(Summary{Checked: 2, Resolved: 2}, summary)
	s.Equal([]string{"a", "b"}, s.deleter.calls)

	remaining, err := s.store.List(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(remaining)

	rec, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Require().NotNil(rec.ResolvedAt)
	s.Equal(s.now, *rec.ResolvedAt)

	events, err := s.auditStore.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(events, 2)
	s.Equal(audit.ActionOrphanResolved, events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
}

func (s *ReconcilerSuite) TestFailedDeleteBumpsAttempts() {
	s.seed("a", s.now)
	s.deleter.errs["a"] = errors.New("identity store down")

	summary, err := s.reconciler.Reconcile(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(Summary{Checked: 1, Failed: 1}, summary)

	rec, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.False(rec.Resolved())
	s.Equal(4, rec.Attempts)
	events, err := s.auditStore.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *ReconcilerSuite) TestLimitBoundsThePass() {
	s.seed("a", s.now.Add(-3*time.Minute))
	s.seed("b", s.now.Add(-2*time.Minute))
	s.seed("c", s.now.Add(-time.Minute))

	summary, err := s.reconciler.Reconcile(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(2, summary.Checked)
	s.Equal([]string{"a", "b"}, s.deleter.calls)
}

func (s *ReconcilerSuite) TestListErrorIsReturned() {
	r := NewReconciler(failingStore{}, s.deleter)
	_, err := r.Reconcile(s.ctx, 0)
	s.Error(err)
	s.Empty(s.deleter.calls)
}

type testNotFound struct{}

func (testNotFound) Error() string        { return "not found" }
func (testNotFound) Is(target error) bool { return target == sentinel.ErrNotFound }

type failingStore struct{}

func (failingStore) Record(context.Context, Record) error { return errors.New("db down") }
func (failingStore) List(context.Context, int) ([]Record, error) {
	return nil, errors.New("db down")
}
func (failingStore) Resolve(context.Context, string, time.Time) error { return errors.New("db down") }
