package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/service"
	"github.com/msomdec/employwise/internal/view"
)

// Login screen messages.
const (
	MsgLoginFailed = "Login failed. Please check your credentials."
	msgUnexpected  = "An unexpected error occurred. Please try again."
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// AuthHandler handles the login screen and logout.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	users        *service.UserListService
	validate     *formValidator
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, users *service.UserListService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		sessions:     sessions,
		users:        users,
		validate:     newFormValidator(),
		cookieSecure: cookieSecure,
	}
}

// HandleLoginPage renders the empty login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	view.LoginPage("", "").Render(r.Context(), w)
}

// HandleLogin exchanges the submitted credentials for a token.
// POST /login
// Form: email, password
// Success: 303 /users. Failure: the form again with an inline error.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validate.Validate(form); err != nil {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form.Email, err.Error())
		return
	}

	sess := SessionFromContext(r.Context())
	var newCookie string
	if sess == nil {
		var err error
		sess, newCookie, err = h.sessions.New()
		if err != nil {
			slog.Error("create session", "error", err)
			h.renderLogin(w, r, http.StatusInternalServerError, form.Email, msgUnexpected)
			return
		}
	}

	if err := h.auth.Login(r.Context(), sess, form.Email, form.Password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			slog.Warn("login failed", "email", form.Email, "error", err)
			h.renderLogin(w, r, http.StatusUnauthorized, form.Email, MsgLoginFailed)
			return
		}
		slog.Error("login", "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, form.Email, msgUnexpected)
		return
	}

	if newCookie != "" {
		setSessionCookie(w, newCookie, h.cookieSecure)
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// HandleLogout removes the stored token and expires the session cookie.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), sess); err != nil {
		slog.Error("logout", "error", err)
	}
	if sess != nil {
		h.users.Forget(sess.ID)
	}
	clearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	view.LoginPage(email, msg).Render(r.Context(), w)
}
