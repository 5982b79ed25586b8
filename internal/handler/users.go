package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/service"
	"github.com/msomdec/employwise/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

type editUserForm struct {
	FirstName *string `form:"first_name" validate:"omitnil,min=1,max=100"`
	LastName  *string `form:"last_name" validate:"omitnil,min=1,max=100"`
	Email     *string `form:"email" validate:"omitnil,email"`
}

// UsersHandler serves the user list screen and its datastar fragments.
type UsersHandler struct {
	users           *service.UserListService
	validate        *formValidator
	notificationTTL time.Duration
}

// NewUsersHandler creates a new UsersHandler. Notifications raised by a
// fragment request are cleared after notificationTTL.
func NewUsersHandler(users *service.UserListService, notificationTTL time.Duration) *UsersHandler {
	return &UsersHandler{
		users:           users,
		validate:        newFormValidator(),
		notificationTTL: notificationTTL,
	}
}

// HandlePage renders the screen shell in its loading state. The shell
// requests the list fragment as soon as it is initialised.
// GET /users?page=n
func (h *UsersHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	snap := h.users.Mount(sess.ID, pageParam(r))
	view.UsersPage(snap).Render(r.Context(), w)
}

// HandleList fetches one page and patches the grid.
// GET /users/list?page=n
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	ticket, snap := h.users.BeginFetch(sess.ID, pageParam(r))

	sse := datastar.NewSSE(w, r)
	patchContent(sse, snap)

	snap, err := h.users.FetchUsers(r.Context(), sess, ticket)
	if errors.Is(err, service.ErrSuperseded) {
		slog.Debug("discard stale page", "page", ticket.Page)
		return
	}
	patchContent(sse, snap)
	if err != nil {
		slog.Error("fetch users", "page", ticket.Page, "error", err)
		h.notify(r.Context(), sse, sess.ID, snap.Notification)
	}
}

// HandleDelete deletes a user and removes its card.
// DELETE /users/{id}
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess := SessionFromContext(r.Context())

	snap, err := h.users.DeleteUser(r.Context(), sess, id)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		slog.Error("delete user", "id", id, "error", err)
	} else {
		sse.RemoveElementByID(view.CardID(id))
		if !snap.ModalOpen() {
			sse.PatchElementTempl(view.EditModal(nil))
		}
	}
	h.notify(r.Context(), sse, sess.ID, snap.Notification)
}

// HandleEdit opens the edit modal for a listed user.
// GET /users/{id}/edit
func (h *UsersHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess := SessionFromContext(r.Context())

	snap, err := h.users.OpenEditor(sess.ID, id)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		slog.Warn("open editor", "id", id, "error", err)
		h.notify(r.Context(), sse, sess.ID, snap.Notification)
		return
	}
	sse.PatchElementTempl(view.EditModal(snap.Selected))
}

// HandleCloseEditor closes the edit modal without saving.
// POST /users/edit/close
func (h *UsersHandler) HandleCloseEditor(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	snap := h.users.CloseEditor(sess.ID)
	datastar.NewSSE(w, r).PatchElementTempl(view.EditModal(snap.Selected))
}

// HandleUpdate saves the edit form. Only the fields present in the form are
// merged into the listed record.
// PUT /users/{id}
// Form: first_name, last_name, email
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess := SessionFromContext(r.Context())

	form := editUserForm{
		FirstName: optionalField(r.PostForm, "first_name"),
		LastName:  optionalField(r.PostForm, "last_name"),
		Email:     optionalField(r.PostForm, "email"),
	}
	if err := h.validate.Validate(form); err != nil {
		slog.Warn("invalid user update", "id", id, "error", err)
		snap := h.users.Notify(sess.ID, domain.NotificationError, service.MsgUpdateFailed)
		h.notify(r.Context(), datastar.NewSSE(w, r), sess.ID, snap.Notification)
		return
	}

	snap, err := h.users.UpdateUser(r.Context(), sess, domain.UserUpdate{
		ID:        id,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	sse := datastar.NewSSE(w, r)
	if err != nil {
		slog.Error("update user", "id", id, "error", err)
		h.notify(r.Context(), sse, sess.ID, snap.Notification)
		return
	}

	if i := slices.IndexFunc(snap.Users, func(u domain.User) bool { return u.ID == id }); i >= 0 {
		sse.PatchElementTempl(view.UserCard(snap.Users[i]))
	}
	sse.PatchElementTempl(view.EditModal(nil))
	h.notify(r.Context(), sse, sess.ID, snap.Notification)
}

// notify patches n into the notification slot, keeps the stream open for the
// notification window and then clears the slot unless a newer notification
// has replaced n in the meantime.
func (h *UsersHandler) notify(ctx context.Context, sse *datastar.ServerSentEventGenerator, sessionID string, n *domain.Notification) {
	if n == nil {
		return
	}
	sse.PatchElementTempl(view.Notification(n))

	timer := time.NewTimer(h.notificationTTL)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if h.users.ClearNotification(sessionID, n.Seq) {
		sse.PatchElementTempl(view.Notification(nil))
	}
}

func patchContent(sse *datastar.ServerSentEventGenerator, snap service.UserListSnapshot) {
	sse.PatchElementTempl(view.UsersContent(snap), datastar.WithSelectorID("users-content"))
}

// pageParam reads ?page=n; anything missing or below 1 means page 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
