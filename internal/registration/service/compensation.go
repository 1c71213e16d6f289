package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"signup/internal/audit"
	"signup/internal/orphan"
	"signup/internal/registration/models"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

const orphanRecordTimeout = 5 * time.Second

// compensate deletes the identity created for a profile that could not be
// inserted. The delete runs on a context detached from the request so a
// client disconnect cannot leave the identity behind, bounded by its own
// timeout. A delete that reports not-found counts as done.
//
// The returned error is what the caller sees: a conflict when the insert lost
// a uniqueness race, an internal error otherwise.
func (s *Service) compensate(ctx context.Context, identityID, username string, identifier models.Identifier, cause error) (models.State, error) {
	requestID := requestcontext.RequestID(ctx)
	s.logger.WarnContext(ctx, "profile insert failed, compensating identity",
		"request_id", requestID,
		"identity_id", identityID,
		"username", username,
		"error", cause,
	)

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.compensation.timeout)
	defer cancel()

	attempts, delErr := s.deleteWithRetry(cctx, identityID)

	userErr := dErrors.Wrap(cause, dErrors.CodeInternal, "failed to create profile")
	if errors.Is(cause, sentinel.ErrConflict) {
		userErr = dErrors.Wrap(cause, dErrors.CodeConflict, "Username, email, or phone number already exists.")
	}

	if delErr == nil {
		s.logger.WarnContext(ctx, "registration compensated",
			"request_id", requestID,
			"identity_id", identityID,
			"attempts", attempts,
		)
		s.emitAudit(ctx, audit.Event{
			Subject:  identityID,
			Action:   audit.ActionRegistrationCompensated,
			Username: username,
			Reason:   cause.Error(),
		})
		return models.StateCompensatedFailure, userErr
	}

	s.logger.ErrorContext(ctx, "compensation failed, identity orphaned",
		"request_id", requestID,
		"identity_id", identityID,
		"username", username,
		"attempts", attempts,
		"error", delErr,
		"cause", cause,
	)
	s.recordOrphan(ctx, orphan.Record{
		IdentityID: identityID,
		Username:   username,
		Identifier: identifier.Value,
		Reason:     fmt.Sprintf("profile insert: %v; delete: %v", cause, delErr),
		Attempts:   attempts,
		RecordedAt: s.clock(),
	})
	s.emitAudit(ctx, audit.Event{
		Subject:  identityID,
		Action:   audit.ActionRegistrationOrphaned,
		Username: username,
		Reason:   delErr.Error(),
	})
	// The orphan is an operator problem; the client still sees the insert outcome.
	return models.StateUncompensatedFailure, userErr
}

// deleteWithRetry calls DeleteAccount up to maxAttempts times with
// exponential backoff and reports how many calls were made.
func (s *Service) deleteWithRetry(ctx context.Context, identityID string) (int, error) {
	attempts := 0
	backoff := retry.WithMaxRetries(s.compensation.maxAttempts-1, retry.NewExponential(s.compensation.baseBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := s.identity.DeleteAccount(ctx, identityID)
		if err == nil || errors.Is(err, sentinel.ErrNotFound) {
			s.incrementCompensationAttempt(true)
			return nil
		}
		s.incrementCompensationAttempt(false)
		s.logger.WarnContext(ctx, "identity delete attempt failed",
			"identity_id", identityID,
			"attempt", attempts,
			"error", err,
		)
		return retry.RetryableError(err)
	})
	return attempts, err
}

// recordOrphan gets a fresh detached deadline; the compensation one may
// already be spent by the retries.
func (s *Service) recordOrphan(ctx context.Context, rec orphan.Record) {
	if s.metrics != nil {
		s.metrics.IncrementOrphansRecorded()
	}
	if s.orphans == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), orphanRecordTimeout)
	defer cancel()
	if err := s.orphans.Record(rctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to record orphaned identity",
			"identity_id", rec.IdentityID,
			"error", err,
		)
	}
}
