package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/handler"
	"github.com/msomdec/employwise/internal/repository/memory"
	"github.com/msomdec/employwise/internal/repository/reqres"
	"github.com/msomdec/employwise/internal/service"
)

const (
	testSecret   = "test-secret-for-handler-tests-0123456789"
	testEmail    = "eve.holt@reqres.in"
	testPassword = "cityslicka"
	testToken    = "QpwL5tke4Pnpja7X4"

	fakePerPage    = 6
	fakeTotalPages = 4
)

// fakeReqres imitates the reqres.in endpoints the app uses: 24 users over
// four pages of six.
type fakeReqres struct {
	mu           sync.Mutex
	loginCalls   int
	listPages    []int
	deleted      []int
	updated      []domain.User
	deleteStatus int
	updateStatus int
	listStatus   int
}

func newFakeReqres(t *testing.T) (*fakeReqres, *httptest.Server) {
	t.Helper()
	f := &fakeReqres{
		deleteStatus: http.StatusNoContent,
		updateStatus: http.StatusOK,
		listStatus:   http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", f.handleLogin)
	mux.HandleFunc("GET /api/users", f.handleList)
	mux.HandleFunc("DELETE /api/users/{id}", f.handleDelete)
	mux.HandleFunc("PUT /api/users/{id}", f.handleUpdate)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func fakeUser(id int) domain.User {
	return domain.User{
		ID:        id,
		Email:     fmt.Sprintf("user%d@reqres.in", id),
		FirstName: fmt.Sprintf("First%d", id),
		LastName:  fmt.Sprintf("Last%d", id),
		Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
	}
}

func (f *fakeReqres) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if req.Email != testEmail || req.Password != testPassword {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "user not found"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"token": testToken})
}

func (f *fakeReqres) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	f.mu.Lock()
	f.listPages = append(f.listPages, page)
	status := f.listStatus
	f.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	data := []domain.User{}
	if page >= 1 && page <= fakeTotalPages {
		for i := 1; i <= fakePerPage; i++ {
			data = append(data, fakeUser((page-1)*fakePerPage+i))
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.UserPage{
		Page:       page,
		PerPage:    fakePerPage,
		Total:      fakePerPage * fakeTotalPages,
		TotalPages: fakeTotalPages,
		Data:       data,
	})
}

func (f *fakeReqres) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteStatus < 300 {
		f.deleted = append(f.deleted, id)
	}
	w.WriteHeader(f.deleteStatus)
}

func (f *fakeReqres) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	json.NewDecoder(r.Body).Decode(&u)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, u)
	w.WriteHeader(f.updateStatus)
	if f.updateStatus < 300 {
		json.NewEncoder(w).Encode(map[string]string{"updatedAt": time.Now().Format(time.RFC3339)})
	}
}

func (f *fakeReqres) set(fn func(f *fakeReqres)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeReqres) logins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

func (f *fakeReqres) updates() []domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.User(nil), f.updated...)
}

func (f *fakeReqres) listCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listPages...)
}

type testApp struct {
	srv    *httptest.Server
	api    *fakeReqres
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	api, apiSrv := newFakeReqres(t)

	store := memory.NewSessionStore()
	client := reqres.NewClient(apiSrv.URL)
	sessions := service.NewSessionService(store, testSecret)
	auth := service.NewAuthService(client, store)
	users := service.NewUserListService(client)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, sessions, auth, users, handler.Options{
		NotificationTTL: 10 * time.Millisecond,
	})
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &testApp{
		srv: srv,
		api: api,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse // don't follow redirects automatically
			},
		},
	}
}

// do sends a page request and returns the response with its body read.
func (a *testApp) do(t *testing.T, method, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	return a.send(t, method, path, form, false)
}

// sse sends a request the way datastar does and returns the event stream.
func (a *testApp) sse(t *testing.T, method, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	return a.send(t, method, path, form, true)
}

func (a *testApp) send(t *testing.T, method, path string, form url.Values, datastar bool) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, a.srv.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if datastar {
		req.Header.Set("Datastar-Request", "true")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(b)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/login", url.Values{
		"email":    {testEmail},
		"password": {testPassword},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
}

// loadPage brings the screen to page ready.
func (a *testApp) loadPage(t *testing.T, page int) string {
	t.Helper()
	p := strconv.Itoa(page)
	if resp, _ := a.do(t, http.MethodGet, "/users?page="+p, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /users: expected 200, got %d", resp.StatusCode)
	}
	_, body := a.sse(t, http.MethodGet, "/users/list?page="+p, nil)
	return body
}

func (a *testApp) cookie(name string) *http.Cookie {
	u, _ := url.Parse(a.srv.URL)
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}
