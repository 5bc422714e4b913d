package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"user-portal/internal/core/auth"
	"user-portal/internal/domain"
	"user-portal/pkg/utils"
)

const TokenTypeBearer = "bearer"

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService verifies credentials and turns tokens back into live users.
type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// VerifyCredentials answers ErrInvalidCredentials for an unknown email and
// for a wrong password alike, and spends a bcrypt comparison in both cases.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindActiveByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		utils.BurnPasswordCheck(password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs the identity's email as subject. ttl == 0 uses the
// configured default.
func (s *AuthService) IssueToken(id domain.Identity, ttl time.Duration) (Token, error) {
	if ttl == 0 {
		ttl = s.jwt.TTL
	}
	tok, err := s.jwt.IssueWithTTL(id.Email, ttl)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: tok, TokenType: TokenTypeBearer}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.IssueToken(u.Identity(), 0)
}

// ResolveToken re-reads the subject on every call so role changes and
// deactivation apply to tokens already handed out.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.jwt.Parse(raw)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, domain.Wrap(domain.ErrTokenExpired, err)
	case err != nil:
		return nil, domain.Wrap(domain.ErrInvalidToken, err)
	}

	u, err := s.users.FindActiveByEmail(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
