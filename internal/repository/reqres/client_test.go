package reqres_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/repository/reqres"
)

// Verify that *reqres.Client implements domain.UserAPI at compile time.
var _ domain.UserAPI = (*reqres.Client)(nil)

func TestClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "eve.holt@reqres.in" || body["password"] != "cityslicka" {
			t.Errorf("unexpected credentials %v", body)
		}
		w.Write([]byte(`{"token":"QpwL5tke4Pnpja7X4"}`))
	}))
	defer srv.Close()

	token, err := reqres.NewClient(srv.URL).Login(context.Background(), "eve.holt@reqres.in", "cityslicka")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "QpwL5tke4Pnpja7X4" {
		t.Fatalf("expected token QpwL5tke4Pnpja7X4, got %q", token)
	}
}

func TestClient_Login_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"user not found"}`))
	}))
	defer srv.Close()

	_, err := reqres.NewClient(srv.URL).Login(context.Background(), "nobody@example.com", "x")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected UpstreamError with 400, got %v", err)
	}
}

func TestClient_Login_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := reqres.NewClient(srv.URL).Login(context.Background(), "eve.holt@reqres.in", "cityslicka")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_Login_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := reqres.NewClient(url).Login(context.Background(), "a@b.co", "x"); err == nil {
		t.Fatal("expected error from closed server")
	}
}

func TestClient_ListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("expected no Authorization header, got %q", auth)
		}
		w.Write([]byte(`{"page":2,"per_page":6,"total":12,"total_pages":2,"data":[
			{"id":7,"email":"michael.lawson@reqres.in","first_name":"Michael","last_name":"Lawson","avatar":"https://reqres.in/img/faces/7-image.jpg"},
			{"id":8,"email":"lindsay.ferguson@reqres.in","first_name":"Lindsay","last_name":"Ferguson","avatar":"https://reqres.in/img/faces/8-image.jpg"}
		]}`))
	}))
	defer srv.Close()

	page, err := reqres.NewClient(srv.URL).ListUsers(context.Background(), "tok", 2)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 users, got %d", len(page.Data))
	}
	if page.Data[0].ID != 7 || page.Data[0].FirstName != "Michael" || page.Data[0].LastName != "Lawson" {
		t.Fatalf("unexpected first user %+v", page.Data[0])
	}
}

func TestClient_ListUsers_MissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_pages":0}`))
	}))
	defer srv.Close()

	page, err := reqres.NewClient(srv.URL).ListUsers(context.Background(), "", 9)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %#v", page.Data)
	}
}

func TestClient_ListUsers_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	if _, err := reqres.NewClient(srv.URL).ListUsers(context.Background(), "", 1); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_DeleteUser(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := reqres.NewClient(srv.URL).DeleteUser(context.Background(), "", 3); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/users/3" {
		t.Fatalf("expected DELETE /api/users/3, got %s %s", gotMethod, gotPath)
	}
}

func TestClient_DeleteUser_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := reqres.NewClient(srv.URL).DeleteUser(context.Background(), "", 3)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_UpdateUser_SendsFullRecord(t *testing.T) {
	var got domain.User
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"updatedAt":"2026-10-15T00:00:00.000Z"}`))
	}))
	defer srv.Close()

	user := domain.User{ID: 2, Email: "janet@example.com", FirstName: "Janet", LastName: "Weaver", Avatar: "https://reqres.in/img/faces/2-image.jpg"}
	if err := reqres.NewClient(srv.URL).UpdateUser(context.Background(), "", user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/users/2" {
		t.Fatalf("expected PUT /api/users/2, got %s %s", gotMethod, gotPath)
	}
	if got != user {
		t.Fatalf("expected body %+v, got %+v", user, got)
	}
}

func TestClient_Headers(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := reqres.NewClient(srv.URL, reqres.WithAPIKey("reqres-free-v1"), reqres.WithTokenForwarding(true))
	if err := client.DeleteUser(context.Background(), "tok-123", 1); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if gotKey != "reqres-free-v1" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
}

func TestClient_TrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := reqres.NewClient(srv.URL+"/").DeleteUser(context.Background(), "", 5); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if gotPath != "/api/users/5" {
		t.Fatalf("expected /api/users/5, got %s", gotPath)
	}
}

func TestClient_TimeoutLeavesCallerClientAlone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		opts func(hc *http.Client) []reqres.Option
	}{
		{"timeout after client", func(hc *http.Client) []reqres.Option {
			return []reqres.Option{reqres.WithHTTPClient(hc), reqres.WithTimeout(20 * time.Millisecond)}
		}},
		{"timeout before client", func(hc *http.Client) []reqres.Option {
			return []reqres.Option{reqres.WithTimeout(20 * time.Millisecond), reqres.WithHTTPClient(hc)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := &http.Client{}
			client := reqres.NewClient(srv.URL, tt.opts(shared)...)

			if err := client.DeleteUser(context.Background(), "", 1); err == nil {
				t.Fatal("expected the request to time out")
			}
			if shared.Timeout != 0 {
				t.Fatalf("expected the caller's client untouched, got timeout %v", shared.Timeout)
			}
		})
	}
}
