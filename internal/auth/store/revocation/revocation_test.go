package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTRL(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked jti is reported", func(t *testing.T) {
		trl := NewMemoryTRL()
		require.NoError(t, trl.RevokeToken(ctx, "jti-1", time.Hour))

		revoked, err := trl.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		trl := NewMemoryTRL()
		revoked, err := trl.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("entries expire with the token", func(t *testing.T) {
		trl := NewMemoryTRL()
		require.NoError(t, trl.RevokeToken(ctx, "jti-2", -time.Second))

		revoked, err := trl.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("empty jti is a no-op", func(t *testing.T) {
		trl := NewMemoryTRL()
		require.NoError(t, trl.RevokeToken(ctx, "", time.Hour))

		revoked, err := trl.IsRevoked(ctx, "")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
