// Package reqres implements domain.UserAPI against the reqres.in REST API.
package reqres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/employwise/internal/domain"
	"github.com/msomdec/employwise/internal/metrics"
)

const (
	opLogin      = "login"
	opListUsers  = "list_users"
	opDeleteUser = "delete_user"
	opUpdateUser = "update_user"
)

// Client talks to the remote user-management API.
type Client struct {
	baseURL      string
	apiKey       string
	forwardToken bool
	timeout      time.Duration
	http         *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key in the x-api-key header of every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTokenForwarding attaches the session token as a bearer credential on
// list, delete and update requests.
func WithTokenForwarding(on bool) Option {
	return func(c *Client) { c.forwardToken = on }
}

// WithHTTPClient replaces the underlying HTTP client. The client is never
// modified; WithTimeout applies to a copy of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Login exchanges credentials for a session token.
// POST /api/login {"email":"...","password":"..."} -> {"token":"..."}
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, opLogin, http.MethodPost, "/api/login", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%s: %w: empty token in response", opLogin, domain.ErrUnauthorized)
	}
	return resp.Token, nil
}

// ListUsers fetches one page of the users collection.
// GET /api/users?page=n -> {"data":[...],"total_pages":n}
func (c *Client) ListUsers(ctx context.Context, token string, page int) (*domain.UserPage, error) {
	var resp domain.UserPage
	path := "/api/users?page=" + strconv.Itoa(page)
	if err := c.do(ctx, opListUsers, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []domain.User{}
	}
	return &resp, nil
}

// DeleteUser removes a user. Only the status code is inspected.
// DELETE /api/users/{id}
func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, opDeleteUser, http.MethodDelete, "/api/users/"+strconv.Itoa(id), token, nil, nil)
}

// UpdateUser replaces a user with the given full record. Only the status code
// is inspected.
// PUT /api/users/{id}
func (c *Client) UpdateUser(ctx context.Context, token string, user domain.User) error {
	return c.do(ctx, opUpdateUser, http.MethodPut, "/api/users/"+strconv.Itoa(user.ID), token, user, nil)
}

// do sends a single request and decodes a 2xx JSON body into out when out is
// non-nil. Non-2xx responses become *domain.UpstreamError.
func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, outcome).Inc()
		metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.forwardToken && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status"
		io.Copy(io.Discard, resp.Body)
		return &domain.UpstreamError{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	outcome = "ok"
	return nil
}
