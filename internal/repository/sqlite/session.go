package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/employwise/internal/domain"
)

// SessionStore implements domain.SessionStore using SQLite.
type SessionStore struct {
	db *sql.DB
}

// GetToken returns the token stored for id, or domain.ErrNotFound.
func (s *SessionStore) GetToken(ctx context.Context, id string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM sessions WHERE id = ?`, id,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("query session token: %w", err)
	}
	return token, nil
}

// PutToken stores token for id, replacing any previous token.
func (s *SessionStore) PutToken(ctx context.Context, id, token string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		id, token, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert session token: %w", err)
	}
	return nil
}

// DeleteToken removes the token for id. Deleting an absent session is not an error.
func (s *SessionStore) DeleteToken(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}
