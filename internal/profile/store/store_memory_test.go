package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"signup/internal/registration/models"
	"signup/pkg/platform/sentinel"
)

type InMemoryProfileStoreSuite struct {
	suite.Suite
	store *InMemoryProfileStore
	ctx   context.Context
}

func TestInMemoryProfileStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryProfileStoreSuite))
}

func (s *InMemoryProfileStoreSuite) SetupTest() {
	s.store = NewInMemoryProfileStore()
	s.ctx = context.Background()
	s.Require().NoError(s.store.Insert(s.ctx, models.ProfileRecord{
		ID: "id-alice", Username: "alice", Email: "alice@example.com", CreatedAt: time.Now(),
	}))
	s.Require().NoError(s.store.Insert(s.ctx, models.ProfileRecord{
		ID: "id-carol", Username: "carol", Phone: "+14155550000", CreatedAt: time.Now(),
	}))
}

func (s *InMemoryProfileStoreSuite) TestFindMatchesAnyPredicate() {
	byUsername, err := s.store.FindByUsernameOrEmailOrPhone(s.ctx, "alice", "nobody@example.com")
	s.Require().NoError(err)
	s.Len(byUsername, 1)

	byEmail, err := s.store.FindByUsernameOrEmailOrPhone(s.ctx, "someone", "alice@example.com")
	s.Require().NoError(err)
	s.Len(byEmail, 1)

	byPhone, err := s.store.FindByUsernameOrEmailOrPhone(s.ctx, "someone", "+14155550000")
	s.Require().NoError(err)
	s.Len(byPhone, 1)

	both, err := s.store.FindByUsernameOrEmailOrPhone(s.ctx, "alice", "+14155550000")
	s.Require().NoError(err)
	s.Len(both, 2)

	none, err := s.store.FindByUsernameOrEmailOrPhone(s.ctx, "dave", "dave@example.com")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *InMemoryProfileStoreSuite) TestInsertEnforcesUniqueness() {
	tests := []struct {
		name    string
		profile models.ProfileRecord
	}{
		{"same id", models.ProfileRecord{ID: "id-alice", Username: "other", Email: "o@example.com"}},
		{"same username", models.ProfileRecord{ID: "id-x", Username: "alice", Email: "x@example.com"}},
		{"same email", models.ProfileRecord{ID: "id-y", Username: "y", Email: "alice@example.com"}},
		{"same phone", models.ProfileRecord{ID: "id-z", Username: "z", Phone: "+14155550000"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.store.Insert(s.ctx, tt.profile)
			s.ErrorIs(err, sentinel.ErrConflict)
		})
	}
	s.Equal(2, s.store.Count())
}

func (s *InMemoryProfileStoreSuite) TestFindByID() {
	p, err := s.store.FindByID(s.ctx, "id-alice")
	s.Require().NoError(err)
	s.Equal("alice", p.Username)

	_, err = s.store.FindByID(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func TestInMemoryProfileStore_EmptyColumnsDoNotCollide(t *testing.T) {
	store := NewInMemoryProfileStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, models.ProfileRecord{ID: "1", Username: "a", Email: "a@example.com"}))
	assert.NoError(t, store.Insert(ctx, models.ProfileRecord{ID: "2", Username: "b", Email: "b@example.com"}))
}
