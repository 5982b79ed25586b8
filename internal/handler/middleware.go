package handler

import (
	"context"
	"net/http"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/service"
	"github.com/starfederation/datastar-go/datastar"
)

type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "session"

// SessionFromContext extracts the browser session from the request context.
// Returns nil if the request carried no valid session cookie.
func SessionFromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return sess
}

// LoadSession resolves the session cookie, if any, and injects the session
// into the request context. Requests without a valid cookie proceed without
// a session.
func LoadSession(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil {
			if sess, err := sessions.Resolve(r.Context(), cookie.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession guards routes that need a stored token. Page requests are
// redirected to /login; datastar requests get a redirect event instead, since
// the browser would not follow a 303 on a fetch.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if service.IsAuthenticated(SessionFromContext(r.Context())) {
			next.ServeHTTP(w, r)
			return
		}
		if isDatastarRequest(r) {
			datastar.NewSSE(w, r).Redirect("/login")
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

// SecurityHeaders sets conservative response headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func isDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

func setSessionCookie(w http.ResponseWriter, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
