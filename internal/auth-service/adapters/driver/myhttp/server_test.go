package myhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"user-auth/internal/auth-service/adapters/driven/db"
	"user-auth/internal/config"
	"user-auth/internal/mylogger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Str0ng!Pw"

func newTestServer(t *testing.T, adminAuth bool) *httptest.Server {
	ts, _ := newTestServerWith(t, adminAuth)
	return ts
}

func newTestServerWith(t *testing.T, adminAuth bool) (*httptest.Server, *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		DB: &config.DBconfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "auth.db"),
			MaxRetries: 1,
		},
		RabbitMq: &config.RabbitMqconfig{Exchange: "user_topic"},
		Srv:      &config.Serviceconfig{AuthServicePort: "0"},
		App: &config.Appconfig{
			PublicJwtSecret:   "test-secret",
			AccessTokenTTL:    5 * time.Minute,
			RefreshTokenTTL:   time.Hour,
			AdminAuthRequired: adminAuth,
		},
		Log: &config.Loggerconfig{Level: mylogger.LevelDebug},
	}

	database, err := db.Start(ctx, cfg.DB, mylogger.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx, database))

	s := NewServer(ctx, ctx, mylogger.NewNop(), cfg)
	s.db = database
	s.Configure()

	ts := httptest.NewServer(s.handler)
	t.Cleanup(func() {
		ts.Close()
		require.NoError(t, s.Stop(context.Background()))
	})
	return ts, s
}

type response struct {
	status int
	body   map[string]any
	raw    []byte
}

func call(t *testing.T, ts *httptest.Server, method, path string, body any, headers ...string) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := response{status: resp.StatusCode, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func signupBody(username, email string) map[string]string {
	return map[string]string{"username": username, "email": email, "password": password}
}

func TestServer_Root(t *testing.T) {
	ts := newTestServer(t, false)

	resp := call(t, ts, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "Api is up and running.", resp.body["message"])

	resp = call(t, ts, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "ok", resp.body["status"])

	resp = call(t, ts, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
}

// Walks signup, conflict, login, block, blocked login, listing, unblock and delete.
func TestServer_AccountLifecycle(t *testing.T) {
	ts := newTestServer(t, false)

	resp := call(t, ts, http.MethodPost, "/signup/", signupBody("alice", "a@x.com"))
	require.Equal(t, http.StatusCreated, resp.status, string(resp.raw))
	assert.NotEmpty(t, resp.body["access"])
	assert.NotEmpty(t, resp.body["refresh"])
	refresh := resp.body["refresh"].(string)

	resp = call(t, ts, http.MethodPost, "/signup/", signupBody("alice", "other@x.com"))
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "username", resp.body["field"])
	assert.Equal(t, "Username already exists. Choose a different username.", resp.body["error"])

	resp = call(t, ts, http.MethodPost, "/signup/", signupBody("alice2", "a@x.com"))
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "email", resp.body["field"])

	resp = call(t, ts, http.MethodPost, "/login/", map[string]string{"username": "alice", "password": password})
	require.Equal(t, http.StatusOK, resp.status)
	assert.NotEmpty(t, resp.body["access"])

	resp = call(t, ts, http.MethodPost, "/login/", map[string]string{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "Invalid Credentials", resp.body["error"])

	resp = call(t, ts, http.MethodPost, "/block/", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "User blocked successfully.", resp.body["message"])

	resp = call(t, ts, http.MethodPost, "/block/", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "User with this email is already blocked.", resp.body["error"])

	resp = call(t, ts, http.MethodPost, "/login/", map[string]string{"username": "alice", "password": password})
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "User is blocked. Please contact support.", resp.body["error"])

	resp = call(t, ts, http.MethodPost, "/token/refresh/", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = call(t, ts, http.MethodGet, "/blocked-users/", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["count"])
	assert.NotContains(t, resp.body, "message")

	resp = call(t, ts, http.MethodPost, "/unblock/", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "User unblocked successfully.", resp.body["message"])

	resp = call(t, ts, http.MethodPost, "/unblock/", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "User with this email is not blocked.", resp.body["error"])

	resp = call(t, ts, http.MethodPost, "/token/refresh/", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, resp.status)
	assert.NotEmpty(t, resp.body["access"])

	resp = call(t, ts, http.MethodGet, "/users/", nil)
	require.Equal(t, http.StatusOK, resp.status)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(resp.raw, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0]["username"])
	assert.NotContains(t, users[0], "password_hash")
	assert.NotContains(t, string(resp.raw), "$2a$")
	id := int64(users[0]["id"].(float64))

	resp = call(t, ts, http.MethodDelete, "/delete-user/"+itoa(id)+"/", nil)
	assert.Equal(t, http.StatusNoContent, resp.status)

	resp = call(t, ts, http.MethodDelete, "/delete-user/"+itoa(id)+"/", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "User not found", resp.body["error"])

	resp = call(t, ts, http.MethodPost, "/login/", map[string]string{"username": "alice", "password": password})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = call(t, ts, http.MethodPost, "/token/refresh/", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = call(t, ts, http.MethodGet, "/blocked-users/", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.EqualValues(t, 0, resp.body["count"])
	assert.Equal(t, []any{}, resp.body["users"])
	assert.Equal(t, "There are no blocked users", resp.body["message"])
}

func TestServer_SignupValidation(t *testing.T) {
	ts := newTestServer(t, false)

	resp := call(t, ts, http.MethodPost, "/signup/", map[string]string{"username": "bob", "email": "nope", "password": "123"})
	require.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "validation", resp.body["kind"])

	fields := resp.body["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "username")

	resp = call(t, ts, http.MethodPost, "/signup/", nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/signup/", strings.NewReader("{not json"))
	require.NoError(t, err)
	raw, err := ts.Client().Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestServer_BlockUnknownEmail(t *testing.T) {
	ts := newTestServer(t, false)

	resp := call(t, ts, http.MethodPost, "/block/", map[string]string{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "User with this email does not exist.", resp.body["error"])

	resp = call(t, ts, http.MethodDelete, "/delete-user/abc/", nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestServer_AdminAuthRequired(t *testing.T) {
	ts := newTestServer(t, true)

	resp := call(t, ts, http.MethodGet, "/users/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = call(t, ts, http.MethodGet, "/users/", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = call(t, ts, http.MethodPost, "/signup/", signupBody("carol", "c@x.com"))
	require.Equal(t, http.StatusCreated, resp.status)
	access := resp.body["access"].(string)
	refresh := resp.body["refresh"].(string)

	resp = call(t, ts, http.MethodGet, "/users/", nil, "Authorization", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = call(t, ts, http.MethodGet, "/users/", nil, "Authorization", "Bearer "+access)
	assert.Equal(t, http.StatusOK, resp.status)
}

func TestServer_AdminFeedReceivesEvents(t *testing.T) {
	ts, s := newTestServerWith(t, false)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/admin/users/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the upgrade returns before the client is registered
	require.Eventually(t, func() bool { return s.dispatcher.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp := call(t, ts, http.MethodPost, "/signup/", signupBody("dave", "d@x.com"))
	require.Equal(t, http.StatusCreated, resp.status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &envelope))
	assert.Equal(t, "user.registered", envelope.Type)
	assert.Equal(t, "dave", envelope.Data["username"])
	assert.NotContains(t, string(payload), password)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
