// Package service runs the registration workflow: validate, check
// uniqueness, create the identity, insert the profile, and delete the
// identity again if the profile cannot be written.
package service

import (
	"context"
	"log/slog"
	"time"

	"signup/internal/audit"
	"signup/internal/orphan"
	"signup/internal/platform/metrics"
	"signup/internal/registration/captcha"
	"signup/internal/registration/models"
)

// IdentityStore owns credentials. Errors carry a pkg/platform/sentinel kind.
type IdentityStore interface {
	CreateAccount(ctx context.Context, cred models.Credential) (*models.IdentityRecord, error)
	DeleteAccount(ctx context.Context, id string) error
}

// ProfileStore owns application profiles. Insert returns sentinel.ErrConflict
// when a unique constraint rejects the row.
type ProfileStore interface {
	FindByUsernameOrEmailOrPhone(ctx context.Context, username, identifier string) ([]models.ProfileRecord, error)
	Insert(ctx context.Context, profile models.ProfileRecord) error
}

// OrphanStore records identities that could not be compensated.
type OrphanStore interface {
	Record(ctx context.Context, rec orphan.Record) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultCompensationAttempts = 3
	defaultCompensationBackoff  = 100 * time.Millisecond
	defaultCompensationTimeout  = 15 * time.Second
)

type compensationPolicy struct {
	maxAttempts uint64
	baseBackoff time.Duration
	timeout     time.Duration
}

// Service orchestrates one registration across the identity and profile stores.
type Service struct {
	identity       IdentityStore
	profiles       ProfileStore
	orphans        OrphanStore
	captcha        captcha.Verifier
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	clock          func() time.Time
	compensation   compensationPolicy
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithCaptcha(v captcha.Verifier) Option {
	return func(s *Service) {
		if v != nil {
			s.captcha = v
		}
	}
}

func WithOrphanStore(store OrphanStore) Option {
	return func(s *Service) {
		s.orphans = store
	}
}

// WithCompensation bounds the identity delete retried after a failed profile
// insert. Zero values keep the defaults.
func WithCompensation(maxAttempts uint64, baseBackoff, timeout time.Duration) Option {
	return func(s *Service) {
		if maxAttempts > 0 {
			s.compensation.maxAttempts = maxAttempts
		}
		if baseBackoff > 0 {
			s.compensation.baseBackoff = baseBackoff
		}
		if timeout > 0 {
			s.compensation.timeout = timeout
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service. Captcha checks default to captcha.Disabled.
func New(identity IdentityStore, profiles ProfileStore, opts ...Option) *Service {
	s := &Service{
		identity: identity,
		profiles: profiles,
		captcha:  captcha.Disabled{},
		logger:   slog.Default(),
		clock:    time.Now,
		compensation: compensationPolicy{
			maxAttempts: defaultCompensationAttempts,
			baseBackoff: defaultCompensationBackoff,
			timeout:     defaultCompensationTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
