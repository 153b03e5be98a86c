package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/socialhub/internal/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.StoreDriver = config.DriverMemory
	cfg.JWTSecret = "server-test-secret-0123456789"
	cfg.NotificationDwell = time.Hour
	cfg.SeedSampleData = false
	cfg.NotifyOnFollow = false
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	s, err := New(cfg, discardLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		assert.NoError(t, s.Close())
	})
	return ts
}

// client is one browser: its own cookie jar, so its own session.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) call(method, path string, body, out any) int {
	c.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type idResp struct {
	ID string `json:"id"`
}

// John registers and posts; Jane registers, follows John and likes the post.
// John then sees one unread notification (follows don't notify with this
// config) and Jane's feed shows his post.
func TestFollowAndLikeScenario(t *testing.T) {
	ts := newTestServer(t, testConfig())
	johnC, janeC := newClient(t, ts), newClient(t, ts)

	var john, jane idResp
	require.Equal(t, http.StatusCreated, johnC.call(http.MethodPost, "/api/register",
		map[string]string{"name": "John Doe", "username": "johndoe", "email": "john@x.com", "password": "pw1"}, &john))
	require.Equal(t, http.StatusCreated, janeC.call(http.MethodPost, "/api/register",
		map[string]string{"name": "Jane Smith", "username": "janesmith", "email": "jane@x.com", "password": "pw2"}, &jane))

	var post idResp
	require.Equal(t, http.StatusCreated, johnC.call(http.MethodPost, "/api/posts",
		map[string]string{"content": "Hello"}, &post))

	require.Equal(t, http.StatusOK, janeC.call(http.MethodPost, "/api/users/"+john.ID+"/follow", nil, nil))
	require.Equal(t, http.StatusOK, janeC.call(http.MethodPost, "/api/posts/"+post.ID+"/like", nil, nil))

	var unread struct {
		Unread int `json:"unread"`
	}
	require.Equal(t, http.StatusOK, johnC.call(http.MethodGet, "/api/notifications/unread", nil, &unread))
	assert.Equal(t, 1, unread.Unread)

	var feed []struct {
		ID        string `json:"id"`
		Likes     int    `json:"likes"`
		LikedByMe bool   `json:"likedByMe"`
	}
	require.Equal(t, http.StatusOK, janeC.call(http.MethodGet, "/api/feed", nil, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)
	assert.Equal(t, 1, feed[0].Likes)
	assert.True(t, feed[0].LikedByMe)
}

func TestRoutes_RequireSession(t *testing.T) {
	ts := newTestServer(t, testConfig())
	anon := newClient(t, ts)

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/feed"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPost, "/api/users/x/follow"},
	}
	for _, r := range protected {
		assert.Equal(t, http.StatusUnauthorized, anon.call(r.method, r.path, nil, nil), "%s %s", r.method, r.path)
	}

	assert.Equal(t, http.StatusOK, anon.call(http.MethodGet, "/api/config", nil, nil))
	assert.Equal(t, http.StatusOK, anon.call(http.MethodPost, "/api/logout", nil, nil))
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newTestServer(t, testConfig())
	c := newClient(t, ts)

	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/api/register",
		map[string]string{"name": "John Doe", "username": "johndoe", "email": "john@x.com", "password": "pw1"}, nil))
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/me", nil, nil))

	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/api/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.call(http.MethodGet, "/api/me", nil, nil))
}

func TestSeededAccountsCanLogIn(t *testing.T) {
	cfg := testConfig()
	cfg.SeedSampleData = true
	ts := newTestServer(t, cfg)
	c := newClient(t, ts)

	status := c.call(http.MethodPost, "/api/login",
		map[string]string{"email": "jane@example.com", "password": "password123"}, nil)

	assert.Equal(t, http.StatusOK, status)
}

func TestSQLiteStatePersistsAcrossRestart(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = config.DriverSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "socialhub.db")

	first, err := New(cfg, discardLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(first.Handler())
	c := newClient(t, ts)
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/api/register",
		map[string]string{"name": "John Doe", "username": "johndoe", "email": "john@x.com", "password": "pw1"}, nil))
	ts.Close()
	require.NoError(t, first.Close())

	second := newTestServer(t, cfg)
	status := newClient(t, second).call(http.MethodPost, "/api/login",
		map[string]string{"email": "john@x.com", "password": "pw1"}, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "cassandra"

	_, err := New(cfg, discardLogger())

	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNew_RandomSecretWhenUnset(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""

	s, err := New(cfg, discardLogger())

	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
