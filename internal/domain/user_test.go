package domain_test

import (
	"errors"
	"testing"

	"github.com/msomdec/employwise/internal/domain"
)

func TestUserUpdate_ApplyKeepsAbsentFields(t *testing.T) {
	old := domain.User{ID: 2, Email: "janet.weaver@reqres.in", FirstName: "Janet", LastName: "Weaver", Avatar: "https://reqres.in/img/faces/2-image.jpg"}
	last := "Smith"

	got := domain.UserUpdate{ID: 2, LastName: &last}.Apply(old)

	want := old
	want.LastName = "Smith"
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestUserUpdate_ApplyEmptyStringOverwrites(t *testing.T) {
	old := domain.User{ID: 2, FirstName: "Janet"}
	empty := ""

	got := domain.UserUpdate{ID: 2, FirstName: &empty}.Apply(old)
	if got.FirstName != "" {
		t.Fatalf("expected explicit empty value to be applied, got %q", got.FirstName)
	}
}

func TestUser_FullName(t *testing.T) {
	cases := []struct {
		user domain.User
		want string
	}{
		{domain.User{FirstName: "George", LastName: "Bluth"}, "George Bluth"},
		{domain.User{FirstName: "George"}, "George"},
		{domain.User{LastName: "Bluth"}, "Bluth"},
		{domain.User{}, ""},
	}
	for _, tc := range cases {
		if got := tc.user.FullName(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	err := error(&domain.UpstreamError{Op: "list_users", StatusCode: 503})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatal("expected UpstreamError to match ErrUpstream")
	}
	if err.Error() != "list_users: unexpected status 503" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
