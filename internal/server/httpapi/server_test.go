package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/studyhub/internal/logging"
	"github.com/studyhub/studyhub/internal/server/users"
)

const bootstrapCode = "ROOT0001"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.NewDiscard()
	svc := users.NewService(users.NewMemoryRepository(), logger, users.Options{
		DefaultInviteQuota: 5,
		RegisterPoints:     100,
	})
	_, err := svc.EnsureBootstrapAdmin(context.Background(), bootstrapCode, "admin-pass-1")
	require.NoError(t, err)

	srv := NewServer(svc, logger, []byte("test-secret"), time.Hour)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func register(t *testing.T, ts *httptest.Server, username, email string) {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/v1/auth/register", map[string]string{
		"username":    username,
		"email":       email,
		"password":    "secret99",
		"invite_code": bootstrapCode,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := http.Post(ts.URL+"/api/v1/auth/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[tokenResponse](t, resp)
	require.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func get(t *testing.T, ts *httptest.Server, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestRegisterLoginMe(t *testing.T) {
	ts := newTestServer(t)

	register(t, ts, "alice", "alice@example.com")
	token := login(t, ts, "alice", "secret99")

	resp := get(t, ts, "/api/v1/users/me", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type meBody struct {
		Code int `json:"code"`
		Data struct {
			Username     string `json:"username"`
			Nickname     string `json:"nickname"`
			Points       int    `json:"points"`
			InviteCode   string `json:"invite_code"`
			InvitedCount int    `json:"invited_count"`
		} `json:"data"`
	}
	body := decode[meBody](t, resp)

	assert.Equal(t, "alice", body.Data.Username)
	assert.Equal(t, "alice", body.Data.Nickname)
	assert.Equal(t, 100, body.Data.Points)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, body.Data.InviteCode)
	assert.Equal(t, 0, body.Data.InvitedCount)
}

func TestLoginByEmail(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "alice@example.com")
	login(t, ts, "alice@example.com", "secret99")
}

func TestLoginRejected(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "alice@example.com")

	form := url.Values{"username": {"alice"}, "password": {"wrong999"}}
	resp, err := http.Post(ts.URL+"/api/v1/auth/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	eb := decode[errorEnvelope](t, resp)
	assert.Equal(t, "incorrect username or password", eb.Detail)
}

func TestRegisterErrors(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "alice@example.com")

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"duplicate username",
			map[string]string{"username": "alice", "email": "x@example.com",
				"password": "secret99", "invite_code": bootstrapCode},
			http.StatusConflict},
		{"duplicate email",
			map[string]string{"username": "bob", "email": "alice@example.com",
				"password": "secret99", "invite_code": bootstrapCode},
			http.StatusConflict},
		{"weak password",
			map[string]string{"username": "bob", "email": "bob@example.com",
				"password": "abcdefgh", "invite_code": bootstrapCode},
			http.StatusBadRequest},
		{"unknown invite code",
			map[string]string{"username": "bob", "email": "bob@example.com",
				"password": "secret99", "invite_code": "NOSUCH99"},
			http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v1/auth/register", tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestValidateInviteCode(t *testing.T) {
	ts := newTestServer(t)

	t.Run("valid", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/auth/validate-invite-code",
			map[string]string{"invite_code": bootstrapCode})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		v := decode[validateInviteResponse](t, resp)
		assert.True(t, v.Valid)
		require.NotNil(t, v.Inviter)
		assert.Equal(t, "admin", v.Inviter.Username)
	})

	t.Run("unknown", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/v1/auth/validate-invite-code",
			map[string]string{"invite_code": "NOSUCH99"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		v := decode[validateInviteResponse](t, resp)
		assert.False(t, v.Valid)
		assert.Nil(t, v.Inviter)
	})
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no token", func(t *testing.T) {
		resp := get(t, ts, "/api/v1/users/me", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := get(t, ts, "/api/v1/users/me", "not-a-jwt")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProfileUpdate(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "alice@example.com")
	token := login(t, ts, "alice", "secret99")

	b, _ := json.Marshal(map[string]string{"nickname": "Ali", "bio": "hey"})
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/users/me", bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type updateBody struct {
		Data struct {
			Nickname string `json:"nickname"`
			Bio      string `json:"bio"`
			Username string `json:"username"`
		} `json:"data"`
	}
	body := decode[updateBody](t, resp)
	assert.Equal(t, "Ali", body.Data.Nickname)
	assert.Equal(t, "hey", body.Data.Bio)
	assert.Equal(t, "alice", body.Data.Username)
}

func TestLeaderboardAndPublicProfile(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "alice@example.com")
	register(t, ts, "bob", "bob@example.com")

	resp := get(t, ts, "/api/v1/users/leaderboard?limit=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	type boardBody struct {
		Data []struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
		Total int `json:"total"`
	}
	lb := decode[boardBody](t, resp)
	require.Equal(t, 3, lb.Total)

	resp = get(t, ts, "/api/v1/users/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	type pubBody struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	pub := decode[pubBody](t, resp)
	assert.Equal(t, "admin", pub.Data.Username)

	resp = get(t, ts, "/api/v1/users/999", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInviteCodeInfoAndInvitedUsers(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice", "alice@example.com")
	token := login(t, ts, "admin", "admin-pass-1")

	resp := get(t, ts, "/api/v1/users/me/invite-code", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	type infoBody struct {
		Data inviteCodeInfo `json:"data"`
	}
	info := decode[infoBody](t, resp)
	assert.Equal(t, bootstrapCode, info.Data.Code)
	assert.Equal(t, 4, info.Data.RemainingQuota)
	require.Len(t, info.Data.InvitedUsers, 1)
	assert.Equal(t, "alice", info.Data.InvitedUsers[0].Username)

	resp = get(t, ts, "/api/v1/users/me/invited-users", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	invited := decode[listEnvelope](t, resp)
	assert.Equal(t, 1, invited.Total)
}
