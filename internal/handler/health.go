package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger is implemented by session stores that can lose their backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the server can serve requests.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a HealthHandler. store may be nil when the session
// store has no backend to check.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HandleHealthz responds with 200 and {"status":"ok"}, or 503 when the session
// store is unreachable.
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			slog.Error("ping session store", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
