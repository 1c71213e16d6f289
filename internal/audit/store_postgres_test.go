//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup/internal/audit"
	"signup/pkg/testutil/containers"
)

func TestPostgresStoreAppend(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	store := audit.NewPostgresStore(pg.DB)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		Action:    audit.ActionRegistrationOrphaned,
		Subject:   "id-9",
		Reason:    "delete failed",
		Timestamp: at,
	}))

	var (
		action   string
		username *string
		reason   string
		created  time.Time
	)
	err := pg.DB.QueryRowContext(ctx,
		`SELECT action, username, reason, created_at FROM audit_events WHERE subject = $1`, "id-9",
	).Scan(&action, &username, &reason, &created)
	require.NoError(t, err)

	assert.Equal(t, "registration_orphaned", action)
	assert.Nil(t, username, "empty strings are stored as NULL")
	assert.Equal(t, "delete failed", reason)
	assert.True(t, created.Equal(at))
}
