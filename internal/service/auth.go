package service

import (
	"context"
	"fmt"

	"github.com/msomdec/employwise/internal/domain"
)

// AuthService logs sessions in against the remote API and answers whether a
// session is authenticated.
type AuthService struct {
	api      domain.UserAPI
	sessions domain.SessionStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(api domain.UserAPI, sessions domain.SessionStore) *AuthService {
	return &AuthService{api: api, sessions: sessions}
}

// Login exchanges credentials for a token and stores it on sess.
// Any API failure, whatever its cause, is reported as domain.ErrUnauthorized;
// the session is left untouched in that case.
func (s *AuthService) Login(ctx context.Context, sess *domain.Session, email, password string) error {
	if sess == nil {
		return fmt.Errorf("%w: no session", domain.ErrInvalidInput)
	}

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	if err := s.sessions.PutToken(ctx, sess.ID, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	sess.Token = token
	return nil
}

// IsAuthenticated reports whether sess carries a token. A nil session is
// never authenticated.
func IsAuthenticated(sess *domain.Session) bool {
	return sess != nil && sess.Token != ""
}

// Logout removes the stored token. It is a no-op for a nil session.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.DeleteToken(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	sess.Token = ""
	return nil
}
