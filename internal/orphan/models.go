// Package orphan tracks identities left behind by a registration whose
// compensating delete never succeeded.
package orphan

import "time"

// Record is one orphaned identity. Attempts counts delete attempts made so far,
// including those made during the original registration.
type Record struct {
	IdentityID string
	Username   string
	Identifier string
	Reason     string
	Attempts   int
	RecordedAt time.Time
	ResolvedAt *time.Time
}

// Resolved reports whether the identity has since been deleted.
func (r Record) Resolved() bool {
	return r.ResolvedAt != nil
}
