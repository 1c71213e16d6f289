package service

import (
	"context"
	"errors"

	"signup/internal/audit"
	"signup/internal/registration/captcha"
	"signup/internal/registration/models"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

// attempt tracks the workflow state of one registration for logs and metrics.
type attempt struct {
	state    models.State
	username string
}

// Register runs the full workflow. On success the identity and the profile
// both exist under the same id. On failure neither exists, unless the
// compensating delete also failed, in which case the identity is recorded in
// the orphan ledger.
func (s *Service) Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error) {
	start := s.clock()
	req.Normalize()
	at := &attempt{state: models.StateReceived, username: req.Username}
	defer s.observe(ctx, at, start)

	identifier, err := req.Validate()
	if err != nil {
		at.state = models.StateRejected
		return nil, err
	}
	at.state = models.StateValidated

	if err := s.verifyCaptcha(ctx, req.CaptchaToken); err != nil {
		at.state = models.StateRejected
		if dErrors.HasCode(err, dErrors.CodeCaptchaUnavailable) {
			at.state = models.StateStoreError
		}
		return nil, err
	}

	if err := s.checkUnique(ctx, req.Username, identifier.Value); err != nil {
		at.state = models.StateStoreError
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			at.state = models.StateRejected
		}
		return nil, err
	}
	at.state = models.StateUniquenessChecked

	identity, err := s.identity.CreateAccount(ctx, models.NewCredential(identifier, req.Password))
	if err != nil {
		translated := translateIdentityError(err)
		at.state = models.StateStoreError
		if dErrors.HasCode(translated, dErrors.CodeIdentityRejected) {
			at.state = models.StateRejected
		}
		s.logger.WarnContext(ctx, "identity store create failed",
			"request_id", requestcontext.RequestID(ctx),
			"username", req.Username,
			"error", err,
		)
		return nil, translated
	}
	at.state = models.StateIdentityCreated

	profile := models.NewProfileRecord(identity, req.Username, identifier, s.clock())
	if err := s.profiles.Insert(ctx, profile); err != nil {
		at.state = models.StateCompensating
		state, compErr := s.compensate(ctx, identity.ID, req.Username, identifier, err)
		at.state = state
		return nil, compErr
	}
	at.state = models.StateProfileInserted

	s.logger.InfoContext(ctx, "account registered",
		"request_id", requestcontext.RequestID(ctx),
		"identity_id", identity.ID,
		"username", req.Username,
		"identifier_kind", identifier.Kind,
	)
	s.emitAudit(ctx, audit.Event{
		Subject:  identity.ID,
		Action:   audit.ActionAccountRegistered,
		Username: req.Username,
	})

	return &models.RegistrationResult{
		IdentityID: identity.ID,
		Username:   req.Username,
		Identifier: identifier,
		State:      models.StateProfileInserted,
	}, nil
}

func (s *Service) verifyCaptcha(ctx context.Context, token string) error {
	result, err := s.captcha.Verify(ctx, token)
	switch {
	case err != nil || result == captcha.Unavailable:
		if err != nil {
			s.logger.WarnContext(ctx, "captcha verifier unavailable", "error", err)
		}
		return dErrors.Wrap(err, dErrors.CodeCaptchaUnavailable, "captcha verification is temporarily unavailable")
	case result == captcha.Rejected:
		return dErrors.New(dErrors.CodeCaptchaRejected, "captcha verification failed")
	default:
		return nil
	}
}

// translateIdentityError keeps client-fixable rejections (400, provider
// message passed through) apart from availability failures (500).
func translateIdentityError(err error) error {
	if errors.Is(err, sentinel.ErrRejected) || errors.Is(err, sentinel.ErrConflict) {
		msg := "identity store rejected the registration"
		var cm interface{ ClientMessage() string }
		if errors.As(err, &cm) && cm.ClientMessage() != "" {
			msg = cm.ClientMessage()
		}
		return dErrors.Wrap(err, dErrors.CodeIdentityRejected, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
}
