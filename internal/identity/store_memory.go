package identity

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"signup/internal/registration/models"
	"signup/pkg/platform/sentinel"
)

type account struct {
	record       models.IdentityRecord
	passwordHash []byte
}

// InMemoryStore is a development stand-in for the identity provider. It
// enforces unique email/phone and keeps only password hashes.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

// NewInMemoryStore creates an empty store hashing at bcrypt.DefaultCost.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[string]account), cost: bcrypt.DefaultCost}
}

// NewInMemoryStoreWithCost lets tests use bcrypt.MinCost.
func NewInMemoryStoreWithCost(cost int) *InMemoryStore {
	s := NewInMemoryStore()
	s.cost = cost
	return s
}

func (s *InMemoryStore) CreateAccount(_ context.Context, cred models.Credential) (*models.IdentityRecord, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(cred.Password), s.cost)
	if err != nil {
		return nil, &Error{Op: "create", Kind: sentinel.ErrRejected, Message: "password is not acceptable", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if (cred.Email != "" && a.record.Email == cred.Email) || (cred.Phone != "" && a.record.Phone == cred.Phone) {
			return nil, &Error{Op: "create", Kind: sentinel.ErrRejected, Message: "User already registered"}
		}
	}
	rec := models.IdentityRecord{ID: uuid.NewString(), Email: cred.Email, Phone: cred.Phone}
	s.accounts[rec.ID] = account{record: rec, passwordHash: hash}
	return &rec, nil
}

func (s *InMemoryStore) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return &Error{Op: "delete", Kind: sentinel.ErrNotFound}
	}
	delete(s.accounts, id)
	return nil
}

// FindByID returns a copy of the stored record.
func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec := a.record
	return &rec, nil
}

// VerifyPassword reports whether password matches the stored hash.
func (s *InMemoryStore) VerifyPassword(_ context.Context, id, password string) bool {
	s.mu.RLock()
	a, ok := s.accounts[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.passwordHash, bcryptInput(password)) == nil
}

// bcryptInput pre-hashes passwords longer than bcrypt's 72-byte input limit.
func bcryptInput(password string) []byte {
	if len(password) <= 72 {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
