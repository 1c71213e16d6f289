package captcha

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifiers(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled accepts empty token", func(t *testing.T) {
		res, err := Disabled{}.Verify(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, Verified, res)
	})

	t.Run("require token rejects empty token", func(t *testing.T) {
		res, err := RequireToken{}.Verify(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, Rejected, res)
	})

	t.Run("require token accepts any token", func(t *testing.T) {
		res, err := RequireToken{}.Verify(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, Verified, res)
	})

	t.Run("func adapter", func(t *testing.T) {
		v := VerifierFunc(func(context.Context, string) (Result, error) { return Unavailable, nil })
		res, err := v.Verify(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, Unavailable, res)
		assert.Equal(t, "unavailable", res.String())
	})
}
