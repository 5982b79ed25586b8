// Package memory provides in-process implementations of the domain stores.
package memory

import (
	"context"
	"sync"

	"github.com/msomdec/employwise/internal/domain"
)

// SessionStore implements domain.SessionStore with a map. Tokens are lost on
// restart.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[string]string)}
}

// GetToken returns the token stored for id, or domain.ErrNotFound.
func (s *SessionStore) GetToken(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return token, nil
}

// PutToken stores token for id, replacing any previous token.
func (s *SessionStore) PutToken(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[id] = token
	return nil
}

// DeleteToken removes the token for id. Deleting an absent session is not an error.
func (s *SessionStore) DeleteToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, id)
	return nil
}
