package domain

import "context"

// User is a user record as served by the remote user-management API.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// FullName joins the first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserUpdate carries the edited fields of a user record. Nil fields are left
// untouched when the update is merged into an existing record.
type UserUpdate struct {
	ID        int
	Email     *string
	FirstName *string
	LastName  *string
	Avatar    *string
}

// Apply returns a copy of u with the non-nil fields of upd merged in.
func (upd UserUpdate) Apply(u User) User {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	return u
}

// UserPage is one page of the remote users collection.
type UserPage struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// UserAPI is the remote user-management API. The token argument is the
// caller's session token; implementations decide whether to forward it.
type UserAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListUsers(ctx context.Context, token string, page int) (*UserPage, error)
	DeleteUser(ctx context.Context, token string, id int) error
	UpdateUser(ctx context.Context, token string, user User) error
}
