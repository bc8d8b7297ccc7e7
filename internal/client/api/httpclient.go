package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the bearer token for authenticated requests. The HTTP
// client reads through it on every call and never caches the value, so an
// external logout is picked up immediately.
type TokenSource interface {
	Get() (string, error)
}

// HTTPClient is the concrete Client speaking JSON over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewHTTPClient builds a client for the given base URL (e.g.
// "http://localhost:8000/api/v1"). timeout <= 0 selects the default 15s.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// errorBody covers both the project envelope {code,message,detail} and the
// bare {detail} shape some framework-level errors use.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// do sends the request and decodes a 2xx JSON body into out (skipped when
// out is nil). Transport failures wrap ErrUnavailable; non-2xx statuses
// become *APIError with the server's message when one can be parsed.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("request failed (status %d)", resp.StatusCode)
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			switch {
			case eb.Detail != "":
				msg = eb.Detail
			case eb.Message != "":
				msg = eb.Message
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// doJSON performs an authenticated JSON request. body may be nil.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	tok, err := c.tokens.Get()
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	return c.do(req, out)
}

// doForm performs a form-encoded POST without a bearer header. Used for the
// login exchange, which authenticates via credentials rather than a token.
func (c *HTTPClient) doForm(ctx context.Context, path string, fields url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(fields.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *HTTPClient) Register(ctx context.Context, data RegisterData) (*User, error) {
	var resp response[User]
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", data, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*Token, error) {
	fields := url.Values{}
	fields.Set("username", username)
	fields.Set("password", password)

	var tok Token
	if err := c.doForm(ctx, "/auth/login", fields, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *HTTPClient) ValidateInviteCode(ctx context.Context, code string) (*InviteCodeValidation, error) {
	body := map[string]string{"invite_code": code}
	var v InviteCodeValidation
	if err := c.doJSON(ctx, http.MethodPost, "/auth/validate-invite-code", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) GetCurrentUser(ctx context.Context) (*UserProfile, error) {
	var resp response[UserProfile]
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) UpdateCurrentUser(ctx context.Context, patch ProfileUpdate) (*User, error) {
	var resp response[User]
	if err := c.doJSON(ctx, http.MethodPut, "/users/me", patch, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) GetMyPoints(ctx context.Context) (*PointsSummary, error) {
	var s PointsSummary
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/points", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) GetMyInviteCode(ctx context.Context) (*InviteCodeInfo, error) {
	var resp response[InviteCodeInfo]
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/invite-code", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) GetMyInvitedUsers(ctx context.Context) ([]UserPublic, error) {
	var resp listResponse[UserPublic]
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/invited-users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) GetLeaderboard(ctx context.Context, limit int) ([]UserPublic, error) {
	path := "/users/leaderboard"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp listResponse[UserPublic]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) GetUserProfile(ctx context.Context, id int64) (*UserPublic, error) {
	var resp response[UserPublic]
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

var _ Client = (*HTTPClient)(nil)
