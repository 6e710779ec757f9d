package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Config describes the connection to the external identity provider.
type Config struct {
	BaseURL string        `env:"IDENTITY_BASE_URL,required"`       // BaseURL is the provider's root URL, e.g. http://localhost:3000.
	Timeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"5s"` // Timeout bounds each provider call.
}

// Client talks to the identity provider over its HTTP API. It forwards
// the caller's credentials (cookies, bearer tokens) so the provider
// performs all actual authentication and authorization.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewClient creates a provider client from config.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Join(ErrUnexpectedResponse, err)
	}
	c := &Client{
		baseURL: base,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// forwardedHeaders are the request headers that carry caller
// credentials to the provider.
var forwardedHeaders = []string{"Cookie", "Authorization"}

// Resolve implements Provider against the provider's get-session
// endpoint. A missing or rejected session resolves to (nil, nil);
// only provider faults produce an error.
func (c *Client) Resolve(ctx context.Context, headers http.Header) (*Auth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/auth/get-session"), nil)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	copyForwarded(req.Header, headers)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: get-session returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var auth Auth
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, errors.Join(ErrUnexpectedResponse, err)
	}
	if auth.Session == nil || auth.User == nil {
		return nil, nil
	}
	return &auth, nil
}

// Proxy returns a reverse proxy that passes /api/auth/* traffic
// through to the provider untouched, so login, signup and OAuth
// callbacks are served by the provider itself.
func (c *Client) Proxy() http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(c.baseURL)
	return proxy
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path, _ = url.JoinPath(u.Path, path)
	return u.String()
}

func copyForwarded(dst, src http.Header) {
	for _, name := range forwardedHeaders {
		for _, v := range src.Values(name) {
			dst.Add(name, v)
		}
	}
}

// ListUsersParams mirrors the provider's user listing query surface.
type ListUsersParams struct {
	Limit          int
	Offset         int
	SearchField    string // email or name
	SearchOperator string // contains, starts_with, ends_with
	SearchValue    string
	SortBy         string
	SortDirection  string // asc or desc
}

// UserList is a page of users with the total count.
type UserList struct {
	Users  []User `json:"users"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// CreateUserParams holds the fields for provider-side user creation.
// The password is passed through to the provider; this service never
// hashes or stores credentials.
type CreateUserParams struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// BanUserParams controls a provider-side ban. A zero ExpiresIn means
// the ban is indefinite.
type BanUserParams struct {
	UserID    uuid.UUID
	Reason    string
	ExpiresIn time.Duration
}

// AdminAPI is the provider's administrative surface consumed by the
// platform admin screens.
type AdminAPI interface {
	ListUsers(ctx context.Context, params ListUsersParams) (*UserList, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	SetRole(ctx context.Context, userID uuid.UUID, role Role) (*User, error)
	BanUser(ctx context.Context, params BanUserParams) (*User, error)
	UnbanUser(ctx context.Context, userID uuid.UUID) (*User, error)
}

// Admin returns an AdminAPI that forwards the given caller headers on
// every call, so the provider enforces that the caller is actually an
// administrator.
func (c *Client) Admin(forward http.Header) AdminAPI {
	return &adminClient{client: c, forward: forward}
}

type adminClient struct {
	client  *Client
	forward http.Header
}

func (a *adminClient) ListUsers(ctx context.Context, params ListUsersParams) (*UserList, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.SearchField != "" {
		q.Set("searchField", params.SearchField)
		q.Set("searchOperator", params.SearchOperator)
		q.Set("searchValue", params.SearchValue)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
		q.Set("sortDirection", params.SortDirection)
	}

	endpoint := a.client.endpoint("/api/auth/admin/list-users")
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var list UserList
	if err := a.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (a *adminClient) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	var user User
	if err := a.do(ctx, http.MethodPost, a.client.endpoint("/api/auth/admin/create-user"), params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *adminClient) SetRole(ctx context.Context, userID uuid.UUID, role Role) (*User, error) {
	payload := map[string]any{"userId": userID, "role": role}
	var user User
	if err := a.do(ctx, http.MethodPost, a.client.endpoint("/api/auth/admin/set-role"), payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *adminClient) BanUser(ctx context.Context, params BanUserParams) (*User, error) {
	payload := map[string]any{"userId": params.UserID}
	if params.Reason != "" {
		payload["banReason"] = params.Reason
	}
	if params.ExpiresIn > 0 {
		payload["banExpiresIn"] = int64(params.ExpiresIn.Seconds())
	}
	var user User
	if err := a.do(ctx, http.MethodPost, a.client.endpoint("/api/auth/admin/ban-user"), payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *adminClient) UnbanUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	payload := map[string]any{"userId": userID}
	var user User
	if err := a.do(ctx, http.MethodPost, a.client.endpoint("/api/auth/admin/unban-user"), payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *adminClient) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Join(ErrUnexpectedResponse, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	copyForwarded(req.Header, a.forward)

	resp, err := a.client.httpc.Do(req)
	if err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("%w: %s returned %d", ErrProviderUnavailable, endpoint, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrUnexpectedResponse, err)
	}
	return nil
}
