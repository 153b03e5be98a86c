package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/socialhub/internal/auth"
	"github.com/sakif/socialhub/internal/handler"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/service"
)

// testServer is the full API over an in-memory App.
type testServer struct {
	t      *testing.T
	app    *service.App
	tokens *auth.TokenService
	notes  *handler.NotificationHandler
	router chi.Router
}

func newTestServer(t *testing.T, dwell time.Duration) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := service.Open(context.Background(), nil, logger, service.Options{NotifyOnFollow: true})
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	notes := handler.NewNotificationHandler(app, dwell, logger)
	t.Cleanup(notes.Stop)

	sessions := handler.NewSessionHandler(app, tokens, logger)
	users := handler.NewUserHandler(app, logger)
	posts := handler.NewPostHandler(app, logger)
	cfg := handler.NewConfigHandler(30*time.Second, dwell)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", sessions.HandleRegister)
		r.Post("/login", sessions.HandleLogin)
		r.Post("/logout", sessions.HandleLogout)
		r.Get("/config", cfg.HandleConfig)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", sessions.HandleMe)
			r.Put("/me", sessions.HandleUpdateMe)
			r.Get("/feed", posts.HandleFeed)
			r.Get("/activity", posts.HandleActivity)
			r.Post("/posts", posts.HandleCreate)
			r.Post("/posts/{id}/like", posts.HandleToggleLike)
			r.Post("/posts/{id}/share", posts.HandleShare)
			r.Get("/posts/{id}/comments", posts.HandleListComments)
			r.Post("/posts/{id}/comments", posts.HandleAddComment)
			r.Get("/search", users.HandleSearch)
			r.Get("/suggestions", users.HandleSuggestions)
			r.Get("/online", users.HandleOnline)
			r.Get("/users/{id}", users.HandleGetUser)
			r.Get("/users/{id}/posts", users.HandleUserPosts)
			r.Post("/users/{id}/follow", users.HandleToggleFollow)
			r.Get("/notifications", notes.HandleList)
			r.Get("/notifications/unread", notes.HandleUnread)
			r.Post("/notifications/{id}/read", notes.HandleMarkRead)
		})
	})

	return &testServer{t: t, app: app, tokens: tokens, notes: notes, router: r}
}

// do sends a request as userID ("" for anonymous). body may be nil, a raw
// string, or any value to JSON-encode.
func (ts *testServer) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := ts.tokens.Generate(userID)
		require.NoError(ts.t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(name, username string) model.User {
	ts.t.Helper()
	u, err := ts.app.Register(context.Background(), name, username, username+"@x.com", "pw-"+username)
	require.NoError(ts.t, err)
	return u
}

func (ts *testServer) post(authorID, content string) model.Post {
	ts.t.Helper()
	p, err := ts.app.CreatePost(context.Background(), authorID, content)
	require.NoError(ts.t, err)
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}
