package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
)

func newTestService() *JWTService {
	return NewJWTService("test-signing-key-at-least-32-bytes!!", "complio", "complio-api")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := id.NewUserID()

	token, jti, err := svc.GenerateAccessToken(userID, id.RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "complio", claims.Issuer)
}

func TestValidateRejections(t *testing.T) {
	svc := newTestService()
	userID := id.NewUserID()

	t.Run("expired token", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(userID, id.RoleUser, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.ErrorContains(t, err, "expired")
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := NewJWTService("a-completely-different-signing-key!!", "complio", "complio-api")
		token, _, err := other.GenerateAccessToken(userID, id.RoleUser, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("tampered token", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(userID, id.RoleUser, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token + "x")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestRemainingTTL(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateAccessToken(id.NewUserID(), id.RoleUser, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	ttl := claims.RemainingTTL(time.Now())
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	assert.Equal(t, time.Duration(0), claims.RemainingTTL(time.Now().Add(2*time.Hour)))
}
