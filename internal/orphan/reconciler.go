package orphan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"signup/internal/audit"
	"signup/pkg/platform/sentinel"
)

// Store is the orphan ledger.
type Store interface {
	Record(ctx context.Context, rec Record) error
	List(ctx context.Context, limit int) ([]Record, error)
	Resolve(ctx context.Context, identityID string, at time.Time) error
}

// IdentityDeleter removes an identity from the identity store.
type IdentityDeleter interface {
	DeleteAccount(ctx context.Context, id string) error
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Summary reports the outcome of one reconciliation pass.
type Summary struct {
	Checked  int
	Resolved int
	Failed   int
}

// Reconciler retries the delete for every unresolved orphan.
type Reconciler struct {
	store    Store
	identity IdentityDeleter
	auditor  AuditPublisher
	logger   *slog.Logger
	clock    func() time.Time
}

type ReconcilerOption func(*Reconciler)

func WithLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithAuditPublisher(p AuditPublisher) ReconcilerOption {
	return func(r *Reconciler) {
		r.auditor = p
	}
}

func WithClock(clock func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func NewReconciler(store Store, identity IdentityDeleter, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:    store,
		identity: identity,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile processes up to limit orphans. A failed delete bumps the
// record's attempt count and leaves it unresolved. The returned error is set
// only when the ledger itself could not be read.
func (r *Reconciler) Reconcile(ctx context.Context, limit int) (Summary, error) {
	var summary Summary
	records, err := r.store.List(ctx, limit)
	if err != nil {
		return summary, fmt.Errorf("list orphans: %w", err)
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		summary.Checked++
		if err := r.reconcileOne(ctx, rec); err != nil {
			summary.Failed++
			r.logger.WarnContext(ctx, "orphan still present",
				"identity_id", rec.IdentityID,
				"attempts", rec.Attempts+1,
				"error", err,
			)
			continue
		}
		summary.Resolved++
	}
	return summary, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, rec Record) error {
	err := r.identity.DeleteAccount(ctx, rec.IdentityID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		bump := rec
		bump.Attempts = 1
		if recErr := r.store.Record(ctx, bump); recErr != nil {
			r.logger.ErrorContext(ctx, "failed to update orphan attempts", "identity_id", rec.IdentityID, "error", recErr)
		}
		return err
	}

	if err := r.store.Resolve(ctx, rec.IdentityID, r.clock()); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("resolve orphan: %w", err)
	}
	r.logger.InfoContext(ctx, "orphan resolved", "identity_id", rec.IdentityID)
	r.emit(ctx, rec)
	return nil
}

func (r *Reconciler) emit(ctx context.Context, rec Record) {
	if r.auditor == nil {
		return
	}
	err := r.auditor.Emit(ctx, audit.Event{
		Subject:  rec.IdentityID,
		Action:   audit.ActionOrphanResolved,
		Username: rec.Username,
		Reason:   rec.Reason,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to emit audit event", "action", audit.ActionOrphanResolved, "error", err)
	}
}
