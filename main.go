package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/employwise/internal/config"
	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/handler"
	"github.com/msomdec/employwise/internal/repository/memory"
	"github.com/msomdec/employwise/internal/repository/reqres"
	"github.com/msomdec/employwise/internal/repository/sqlite"
	"github.com/msomdec/employwise/internal/service"
)

// User list screens untouched this long are dropped from memory.
const (
	screenSweepInterval = 10 * time.Minute
	screenMaxIdle       = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	var (
		store  domain.SessionStore
		pinger handler.Pinger
	)
	switch cfg.SessionStore {
	case config.SessionStoreSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(context.Background()); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("database migrations applied", "path", cfg.DatabasePath)
		store, pinger = db.Sessions(), db
	default:
		store = memory.NewSessionStore()
	}
	slog.Info("session store ready", "kind", cfg.SessionStore)

	api := reqres.NewClient(cfg.APIBaseURL,
		reqres.WithAPIKey(cfg.APIKey),
		reqres.WithTokenForwarding(cfg.ForwardToken),
		reqres.WithTimeout(cfg.UpstreamTimeout),
	)

	sessionService := service.NewSessionService(store, cfg.SessionSecret)
	authService := service.NewAuthService(api, store)
	userListService := service.NewUserListService(api)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, sessionService, authService, userListService, handler.Options{
		CookieSecure:    cfg.CookieSecure,
		NotificationTTL: cfg.NotificationTTL,
		Store:           pinger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go userListService.RunJanitor(ctx, screenSweepInterval, screenMaxIdle)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
