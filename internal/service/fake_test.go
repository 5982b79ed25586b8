package service_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/msomdec/employwise/internal/domain"
)

// fakeAPI is an in-memory domain.UserAPI with injectable failures.
type fakeAPI struct {
	mu sync.Mutex

	token    string
	loginErr error

	pages   map[int]*domain.UserPage
	listErr error
	// block, when set for a page, holds ListUsers until the channel is closed.
	block map[int]chan struct{}

	deleteErr error
	updateErr error

	listCalls   []int
	deleteCalls []int
	updated     []domain.User
	tokensSeen  []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		token: "QpwL5tke4Pnpja7X4",
		pages: make(map[int]*domain.UserPage),
		block: make(map[int]chan struct{}),
	}
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, token string, page int) (*domain.UserPage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	f.tokensSeen = append(f.tokensSeen, token)
	wait := f.block[page]
	f.mu.Unlock()

	if wait != nil {
		<-wait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	p, ok := f.pages[page]
	if !ok {
		return &domain.UserPage{Page: page, Data: []domain.User{}}, nil
	}
	cp := *p
	cp.Data = append([]domain.User(nil), p.Data...)
	return &cp, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, token string, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeAPI) UpdateUser(ctx context.Context, token string, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, user)
	return nil
}

func sampleUsers(firstID, n int) []domain.User {
	users := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + i
		users = append(users, domain.User{
			ID:        id,
			Email:     "user" + strconv.Itoa(id) + "@reqres.in",
			FirstName: "First" + strconv.Itoa(id),
			LastName:  "Last" + strconv.Itoa(id),
			Avatar:    "https://reqres.in/img/faces/" + strconv.Itoa(id) + "-image.jpg",
		})
	}
	return users
}
