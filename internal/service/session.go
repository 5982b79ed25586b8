package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/employwise/internal/domain"
)

// SessionService mints session IDs, signs them into cookie values and
// resolves cookie values back into sessions carrying their stored token.
type SessionService struct {
	store  domain.SessionStore
	secret []byte
}

// NewSessionService creates a new SessionService.
func NewSessionService(store domain.SessionStore, secret string) *SessionService {
	return &SessionService{store: store, secret: []byte(secret)}
}

// New creates an unauthenticated session with a fresh ID and returns it
// together with its signed cookie value.
func (s *SessionService) New() (*domain.Session, string, error) {
	sess := &domain.Session{ID: uuid.NewString()}
	signed, err := s.sign(sess.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %w", err)
	}
	return sess, signed, nil
}

// Resolve validates a signed cookie value and loads the session it names.
// A valid cookie whose session has no stored token yields a session with an
// empty Token.
func (s *SessionService) Resolve(ctx context.Context, signed string) (*domain.Session, error) {
	id, err := s.parse(signed)
	if err != nil {
		return nil, err
	}

	token, err := s.store.GetToken(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get session token: %w", err)
	}
	return &domain.Session{ID: id, Token: token}, nil
}

func (s *SessionService) sign(id string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  id,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) parse(signed string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
