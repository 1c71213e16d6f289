// Package store persists application profiles.
package store

import (
	"context"
	"fmt"
	"sync"

	"signup/internal/registration/models"
	"signup/pkg/platform/sentinel"
)

// InMemoryProfileStore mirrors the PostgreSQL store's uniqueness constraints.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.ProfileRecord
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[string]models.ProfileRecord)}
}

func (s *InMemoryProfileStore) FindByUsernameOrEmailOrPhone(_ context.Context, username, identifier string) ([]models.ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ProfileRecord
	for _, p := range s.profiles {
		if p.Matches(username, identifier) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *InMemoryProfileStore) Insert(_ context.Context, profile models.ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; ok {
		return fmt.Errorf("insert profile %s: %w", profile.ID, sentinel.ErrConflict)
	}
	for _, p := range s.profiles {
		if p.Username == profile.Username ||
			(profile.Email != "" && p.Email == profile.Email) ||
			(profile.Phone != "" && p.Phone == profile.Phone) {
			return fmt.Errorf("insert profile %s: %w", profile.ID, sentinel.ErrConflict)
		}
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *InMemoryProfileStore) FindByID(_ context.Context, id string) (*models.ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryProfileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
