package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/metrics"
)

// Notification messages shown on the user list screen.
const (
	MsgFetchFailed     = "Failed to fetch users"
	MsgDeleteSucceeded = "User deleted successfully"
	MsgDeleteFailed    = "Failed to delete user"
	MsgUpdateSucceeded = "User updated successfully"
	MsgUpdateFailed    = "Failed to update user"
	MsgUserNotFound    = "User not found"
)

// ErrSuperseded is returned by FetchUsers when a newer page request was
// started while this one was in flight. Its result has been discarded.
var ErrSuperseded = errors.New("superseded by a newer page request")

// Phase is the loading state of a user list screen.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// UserListSnapshot is a copy of a screen's state, safe to render while the
// screen keeps changing.
type UserListSnapshot struct {
	Phase        Phase
	Users        []domain.User
	CurrentPage  int
	TotalPages   int
	Selected     *domain.User
	Notification *domain.Notification
}

// ModalOpen reports whether the edit modal is shown.
func (s UserListSnapshot) ModalOpen() bool {
	return s.Selected != nil
}

// FetchTicket identifies one page request. Only the ticket with the latest
// generation may change the screen.
type FetchTicket struct {
	Generation uint64
	Page       int
}

// userListScreen is the state of one session's user list screen.
type userListScreen struct {
	mu          sync.Mutex
	phase       Phase
	users       []domain.User
	currentPage int
	totalPages  int
	selected    *domain.User
	notice      *domain.Notification
	generation  uint64
	noticeSeq   uint64
	lastUsed    time.Time
}

func newUserListScreen(page int) *userListScreen {
	return &userListScreen{
		phase:       PhaseLoading,
		users:       []domain.User{},
		currentPage: max(page, 1),
		lastUsed:    time.Now(),
	}
}

// snapshot must be called with mu held.
func (sc *userListScreen) snapshot() UserListSnapshot {
	snap := UserListSnapshot{
		Phase:       sc.phase,
		Users:       slices.Clone(sc.users),
		CurrentPage: sc.currentPage,
		TotalPages:  sc.totalPages,
	}
	if sc.selected != nil {
		u := *sc.selected
		snap.Selected = &u
	}
	if sc.notice != nil {
		n := *sc.notice
		snap.Notification = &n
	}
	return snap
}

// notify replaces the current notification. Must be called with mu held.
func (sc *userListScreen) notify(kind domain.NotificationKind, message string) {
	sc.noticeSeq++
	sc.notice = &domain.Notification{Message: message, Kind: kind, Seq: sc.noticeSeq}
	metrics.NotificationsTotal.WithLabelValues(string(kind)).Inc()
}

func (sc *userListScreen) indexOf(id int) int {
	return slices.IndexFunc(sc.users, func(u domain.User) bool { return u.ID == id })
}

// UserListService owns the per-session user list screens and performs the
// list, delete and update operations against the remote API.
type UserListService struct {
	api domain.UserAPI

	mu      sync.Mutex
	screens map[string]*userListScreen
}

// NewUserListService creates a new UserListService.
func NewUserListService(api domain.UserAPI) *UserListService {
	return &UserListService{
		api:     api,
		screens: make(map[string]*userListScreen),
	}
}

func (s *UserListService) screen(sessionID string) *userListScreen {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.screens[sessionID]
	if !ok {
		sc = newUserListScreen(1)
		s.screens[sessionID] = sc
		metrics.ActiveScreens.Inc()
	}
	sc.lastUsed = time.Now()
	return sc
}

// Mount resets the session's screen to its initial loading state on page.
// When the session already had a screen, page is clamped to its known page
// count and any fetch still in flight for it is superseded.
func (s *UserListService) Mount(sessionID string, page int) UserListSnapshot {
	sc := newUserListScreen(page)

	s.mu.Lock()
	if old, ok := s.screens[sessionID]; ok {
		old.mu.Lock()
		// Tickets issued by the old screen carry at most old.generation.
		sc.generation = old.generation + 1
		sc.noticeSeq = old.noticeSeq
		sc.totalPages = old.totalPages
		if sc.totalPages > 0 && sc.currentPage > sc.totalPages {
			sc.currentPage = sc.totalPages
		}
		old.mu.Unlock()
	} else {
		metrics.ActiveScreens.Inc()
	}
	s.screens[sessionID] = sc
	s.mu.Unlock()

	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.snapshot()
}

// Forget drops the session's screen.
func (s *UserListService) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.screens[sessionID]; ok {
		delete(s.screens, sessionID)
		metrics.ActiveScreens.Dec()
	}
}

// Snapshot returns the current state of the session's screen.
func (s *UserListService) Snapshot(sessionID string) UserListSnapshot {
	sc := s.screen(sessionID)
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.snapshot()
}

// BeginFetch switches the screen to loading for page and returns the ticket
// for the request. Pages below 1 become 1; once the page count is known,
// pages beyond it become the last page.
func (s *UserListService) BeginFetch(sessionID string, page int) (FetchTicket, UserListSnapshot) {
	sc := s.screen(sessionID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	page = max(page, 1)
	if sc.totalPages > 0 && page > sc.totalPages {
		page = sc.totalPages
	}

	sc.generation++
	sc.currentPage = page
	sc.phase = PhaseLoading
	return FetchTicket{Generation: sc.generation, Page: page}, sc.snapshot()
}

// FetchUsers requests the ticket's page and applies the result if the ticket
// is still the latest. On failure an error notification is raised, the
// previous users are kept and the screen becomes ready anyway.
func (s *UserListService) FetchUsers(ctx context.Context, sess *domain.Session, ticket FetchTicket) (UserListSnapshot, error) {
	page, err := s.api.ListUsers(ctx, sess.Token, ticket.Page)

	sc := s.screen(sess.ID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if ticket.Generation != sc.generation {
		metrics.StaleFetchesTotal.Inc()
		return sc.snapshot(), ErrSuperseded
	}

	sc.phase = PhaseReady
	if err != nil {
		sc.notify(domain.NotificationError, MsgFetchFailed)
		return sc.snapshot(), fmt.Errorf("list users page %d: %w", ticket.Page, err)
	}

	sc.users = slices.Clone(page.Data)
	sc.totalPages = page.TotalPages
	return sc.snapshot(), nil
}

// DeleteUser deletes the user remotely and, once confirmed, removes it from
// the local list. Deleting an id that is no longer listed only changes the
// notification.
func (s *UserListService) DeleteUser(ctx context.Context, sess *domain.Session, id int) (UserListSnapshot, error) {
	err := s.api.DeleteUser(ctx, sess.Token, id)

	sc := s.screen(sess.ID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err != nil {
		sc.notify(domain.NotificationError, MsgDeleteFailed)
		return sc.snapshot(), fmt.Errorf("delete user %d: %w", id, err)
	}

	if i := sc.indexOf(id); i >= 0 {
		sc.users = slices.Delete(sc.users, i, i+1)
	}
	if sc.selected != nil && sc.selected.ID == id {
		sc.selected = nil
	}
	sc.notify(domain.NotificationSuccess, MsgDeleteSucceeded)
	return sc.snapshot(), nil
}

// OpenEditor selects the listed user with id for editing.
func (s *UserListService) OpenEditor(sessionID string, id int) (UserListSnapshot, error) {
	sc := s.screen(sessionID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	i := sc.indexOf(id)
	if i < 0 {
		sc.notify(domain.NotificationError, MsgUserNotFound)
		return sc.snapshot(), fmt.Errorf("open editor for user %d: %w", id, domain.ErrNotFound)
	}
	u := sc.users[i]
	sc.selected = &u
	return sc.snapshot(), nil
}

// CloseEditor clears the selection.
func (s *UserListService) CloseEditor(sessionID string) UserListSnapshot {
	sc := s.screen(sessionID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.selected = nil
	return sc.snapshot()
}

// UpdateUser merges upd into the listed user with the same id, sends the
// merged record to the API and, once confirmed, replaces the local record and
// closes the editor. On failure the editor stays open and the list is
// unchanged.
func (s *UserListService) UpdateUser(ctx context.Context, sess *domain.Session, upd domain.UserUpdate) (UserListSnapshot, error) {
	sc := s.screen(sess.ID)

	sc.mu.Lock()
	i := sc.indexOf(upd.ID)
	if i < 0 {
		sc.notify(domain.NotificationError, MsgUpdateFailed)
		snap := sc.snapshot()
		sc.mu.Unlock()
		return snap, fmt.Errorf("update user %d: %w", upd.ID, domain.ErrNotFound)
	}
	merged := upd.Apply(sc.users[i])
	sc.mu.Unlock()

	err := s.api.UpdateUser(ctx, sess.Token, merged)

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err != nil {
		sc.notify(domain.NotificationError, MsgUpdateFailed)
		return sc.snapshot(), fmt.Errorf("update user %d: %w", upd.ID, err)
	}

	// The list may have been replaced by a page change while the request was
	// in flight; merge into whatever record with this id is listed now.
	if i := sc.indexOf(upd.ID); i >= 0 {
		sc.users[i] = upd.Apply(sc.users[i])
	}
	sc.selected = nil
	sc.notify(domain.NotificationSuccess, MsgUpdateSucceeded)
	return sc.snapshot(), nil
}

// Notify raises a notification on the session's screen.
func (s *UserListService) Notify(sessionID string, kind domain.NotificationKind, message string) UserListSnapshot {
	sc := s.screen(sessionID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.notify(kind, message)
	return sc.snapshot()
}

// ClearNotification removes the notification numbered seq. It reports false,
// and changes nothing, when a newer notification has replaced it.
func (s *UserListService) ClearNotification(sessionID string, seq uint64) bool {
	sc := s.screen(sessionID)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.notice == nil || sc.notice.Seq != seq {
		return false
	}
	sc.notice = nil
	return true
}

// Sweep drops screens not touched for longer than maxIdle and returns how
// many were dropped.
func (s *UserListService) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	dropped := 0
	for id, sc := range s.screens {
		if sc.lastUsed.Before(cutoff) {
			delete(s.screens, id)
			metrics.ActiveScreens.Dec()
			dropped++
		}
	}
	return dropped
}

// RunJanitor sweeps idle screens every interval until ctx is done.
func (s *UserListService) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(maxIdle)
		}
	}
}
