package domain

import "context"

// Session is the server-side counterpart of one browser. Token is the opaque
// credential returned by login; an empty Token means the browser is not
// logged in.
type Session struct {
	ID    string
	Token string
}

// SessionStore persists session tokens keyed by session ID.
type SessionStore interface {
	// GetToken returns ErrNotFound when no token is stored for id.
	GetToken(ctx context.Context, id string) (string, error)
	PutToken(ctx context.Context, id, token string) error
	DeleteToken(ctx context.Context, id string) error
}
