package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-portal/internal/core/auth"
	"user-portal/internal/domain"
	"user-portal/internal/repo"
	"user-portal/internal/testutil"
)

func newAuth(t *testing.T) (*AuthService, *repo.UserRepo, *domain.User) {
	t.Helper()
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "login@sdf.com")
	users := repo.NewUserRepo(db)
	jwter := &auth.JWTer{Secret: []byte("secret"), Issuer: "user-portal", TTL: time.Minute}
	return NewAuthService(users, jwter), users, u
}

func TestAuthService_VerifyCredentials(t *testing.T) {
	ctx := context.Background()
	s, users, u := newAuth(t)

	got, err := s.VerifyCredentials(ctx, " login@sdf.com ", "password")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, wrongPw := s.VerifyCredentials(ctx, "login@sdf.com", "nope")
	_, noUser := s.VerifyCredentials(ctx, "nobody@sdf.com", "password")
	assert.ErrorIs(t, wrongPw, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), noUser.Error(), "unknown email and bad password look the same")

	_, err = users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)
	_, err = s.VerifyCredentials(ctx, "login@sdf.com", "password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_LoginAndResolve(t *testing.T) {
	ctx := context.Background()
	s, users, u := newAuth(t)

	tok, err := s.Login(ctx, "login@sdf.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	// role changes after issuance are visible on resolve
	_, err = users.SetRoles(ctx, u.ID, domain.GrantAdmin(u.Roles))
	require.NoError(t, err)

	got, err := s.ResolveToken(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.Roles.IsAdmin())
}

func TestAuthService_ResolveToken_Failures(t *testing.T) {
	ctx := context.Background()
	s, users, u := newAuth(t)

	expired, err := s.IssueToken(u.Identity(), -time.Hour)
	require.NoError(t, err)
	_, err = s.ResolveToken(ctx, expired.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(err))

	_, err = s.ResolveToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(err))

	ghost, err := s.IssueToken(domain.Identity{Email: "ghost@sdf.com"}, 0)
	require.NoError(t, err)
	_, err = s.ResolveToken(ctx, ghost.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	live, err := s.IssueToken(u.Identity(), 0)
	require.NoError(t, err)
	_, err = users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)
	_, err = s.ResolveToken(ctx, live.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(err))
}
