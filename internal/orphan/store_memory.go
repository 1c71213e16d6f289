package orphan

import (
	"context"
	"sort"
	"sync"
	"time"

	"signup/pkg/platform/sentinel"
)

// InMemoryStore keeps the ledger in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

// Record inserts the orphan or, if it is already known, adds the attempts and
// reopens it.
func (s *InMemoryStore) Record(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[rec.IdentityID]; ok {
		existing.Attempts += rec.Attempts
		existing.Reason = rec.Reason
		existing.ResolvedAt = nil
		s.records[rec.IdentityID] = existing
		return nil
	}
	rec.ResolvedAt = nil
	s.records[rec.IdentityID] = rec
	return nil
}

// List returns unresolved records, oldest first. A limit <= 0 means no limit.
func (s *InMemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if !r.Resolved() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Resolve(_ context.Context, identityID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identityID]
	if !ok || rec.Resolved() {
		return sentinel.ErrNotFound
	}
	rec.ResolvedAt = &at
	s.records[identityID] = rec
	return nil
}

// Get returns the record regardless of resolution.
func (s *InMemoryStore) Get(_ context.Context, identityID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[identityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}
