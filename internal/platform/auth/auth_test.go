package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projecthub/internal/platform/config"
)

func newTokenService(secret string) *TokenService {
	return NewTokenService(config.JWTConfig{Secret: secret, AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTokenService("s3cret")

	token, err := svc.GenerateAccessToken("usr_1", "alice", "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	id := IdentityFromClaims(claims)
	require.True(t, id.IsAuthenticated())
	require.Equal(t, "alice", id.DisplayName())
}

func TestValidateTokenRejectsOtherSecretAndRefreshTokens(t *testing.T) {
	svc := newTokenService("s3cret")

	foreign, err := newTokenService("other").GenerateAccessToken("usr_1", "alice", "a@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	require.Error(t, err)

	refresh, err := svc.GenerateRefreshToken("usr_1")
	require.NoError(t, err)
	_, err = svc.ValidateToken(refresh)
	require.Error(t, err)

	subject, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, "usr_1", subject)
}

func TestExpiredAccessToken(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "s3cret", AccessTokenTTL: -time.Minute})

	token, err := svc.GenerateAccessToken("usr_1", "alice", "a@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}

func TestIdentityContext(t *testing.T) {
	require.False(t, FromContext(context.Background()).IsAuthenticated())
	require.Equal(t, "Anonymous", Identity{}.DisplayName())

	ctx := WithIdentity(context.Background(), Identity{UserID: "usr_1", Username: "alice"})
	require.Equal(t, "usr_1", FromContext(ctx).UserID)
}
