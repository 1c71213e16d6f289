package orphan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("record again accumulates attempts and reopens", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Record(ctx, Record{IdentityID: "id", Attempts: 3, RecordedAt: now}))
		require.NoError(t, store.Resolve(ctx, "id", now))

		require.NoError(t, store.Record(ctx, Record{IdentityID: "id", Attempts: 2, Reason: "again"}))
		rec, err := store.Get(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, 5, rec.Attempts)
		assert.Equal(t, "again", rec.Reason)
		assert.False(t, rec.Resolved())
	})

	t.Run("resolve unknown or resolved is not found", func(t *testing.T) {
		store := NewInMemoryStore()
		assert.ErrorIs(t, store.Resolve(ctx, "missing", now), sentinel.ErrNotFound)

		require.NoError(t, store.Record(ctx, Record{IdentityID: "id", RecordedAt: now}))
		require.NoError(t, store.Resolve(ctx, "id", now))
		assert.ErrorIs(t, store.Resolve(ctx, "id", now), sentinel.ErrNotFound)
	})

	t.Run("list hides resolved", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Record(ctx, Record{IdentityID: "a", RecordedAt: now}))
		require.NoError(t, store.Record(ctx, Record{IdentityID: "b", RecordedAt: now.Add(time.Second)}))
		require.NoError(t, store.Resolve(ctx, "a", now))

		list, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "b", list[0].IdentityID)
	})
}
