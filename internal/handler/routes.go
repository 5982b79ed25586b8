package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/employwise/internal/service"
	"github.com/msomdec/employwise/internal/view"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries the settings the handlers need from configuration.
type Options struct {
	CookieSecure    bool
	NotificationTTL time.Duration
	// Store is pinged by /healthz; nil skips the check.
	Store Pinger
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, sessions *service.SessionService, auth *service.AuthService, users *service.UserListService, opts Options) {
	authHandler := NewAuthHandler(auth, sessions, users, opts.CookieSecure)
	usersHandler := NewUsersHandler(users, opts.NotificationTTL)
	healthHandler := NewHealthHandler(opts.Store)

	withSession := func(h http.HandlerFunc) http.Handler {
		return LoadSession(sessions, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return LoadSession(sessions, RequireSession(h))
	}

	mux.HandleFunc("GET /healthz", healthHandler.HandleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.FileServerFS(view.Static))

	mux.Handle("GET /{$}", withSession(HandleRoot))
	mux.Handle("GET /login", withSession(authHandler.HandleLoginPage))
	mux.Handle("POST /login", withSession(authHandler.HandleLogin))
	mux.Handle("POST /logout", withSession(authHandler.HandleLogout))

	mux.Handle("GET /users", protected(usersHandler.HandlePage))
	mux.Handle("GET /users/list", protected(usersHandler.HandleList))
	mux.Handle("GET /users/{id}/edit", protected(usersHandler.HandleEdit))
	mux.Handle("POST /users/edit/close", protected(usersHandler.HandleCloseEditor))
	mux.Handle("PUT /users/{id}", protected(usersHandler.HandleUpdate))
	mux.Handle("DELETE /users/{id}", protected(usersHandler.HandleDelete))
}
