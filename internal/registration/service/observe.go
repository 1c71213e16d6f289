package service

import (
	"context"
	"time"

	"signup/internal/audit"
	"signup/pkg/requestcontext"
)

func (s *Service) observe(ctx context.Context, at *attempt, start time.Time) {
	s.logger.DebugContext(ctx, "registration finished",
		"request_id", requestcontext.RequestID(ctx),
		"username", at.username,
		"state", at.state,
		"duration_ms", s.clock().Sub(start).Milliseconds(),
	)
	if s.metrics != nil {
		s.metrics.ObserveRegistration(string(at.state), start)
	}
}

func (s *Service) incrementCompensationAttempt(succeeded bool) {
	if s.metrics != nil {
		s.metrics.IncrementCompensationAttempt(succeeded)
	}
}

// emitAudit never fails the workflow; a lost event is logged.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.DeviceName(ctx)
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"identity_id", event.Subject,
			"error", err,
		)
	}
}
