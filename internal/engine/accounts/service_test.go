package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/config"
	"projecthub/internal/platform/database/testutil"
	"projecthub/internal/platform/repositories"
)

func newService(t *testing.T) *Service {
	db := testutil.NewDB(t)
	tokens := auth.NewTokenService(config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	return NewService(repositories.NewUserRepository(db), tokens)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "correct-horse", user.PasswordHash)

	session, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)

	refreshed, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, refreshed.User.ID)

	me, err := svc.Me(ctx, auth.Identity{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, "alice", me.Username)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "password1"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	require.EqualError(t, err, "Username already exists")

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@example.com", Password: "password1"})
	require.EqualError(t, err, "Email already exists")
}

func TestRegisterValidatesInput(t *testing.T) {
	_, err := newService(t).Register(context.Background(), RegisterInput{Username: "al", Email: "nope", Password: "short"})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, LoginInput{Username: "alice", Password: "password2"})
	_, unknownUser := svc.Login(ctx, LoginInput{Username: "mallory", Password: "password1"})

	require.ErrorIs(t, wrongPassword, apperrors.ErrUnauthenticated)
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
	session, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, session.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestMeRequiresAuthentication(t *testing.T) {
	_, err := newService(t).Me(context.Background(), auth.Identity{})
	require.EqualError(t, err, apperrors.AuthenticationRequired)
}
