package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/service"
)

// UserHandler serves profiles, the follow toggle and user discovery
// (search, suggestions, online users).
type UserHandler struct {
	app    *service.App
	view   presenter
	logger *slog.Logger
}

func NewUserHandler(app *service.App, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		app:    app,
		view:   presenter{app: app, now: time.Now},
		logger: logger,
	}
}

// FollowResponse reports the outcome of a follow toggle.
type FollowResponse struct {
	Action    service.FollowAction `json:"action"`
	Following bool                 `json:"following"`
	Followers int                  `json:"followers"`
}

// HandleGetUser returns a profile as seen by the viewer.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	u, found := h.app.User(id)
	if !found {
		writeError(w, apperror.NotFound("user", id))
		return
	}
	writeJSON(w, http.StatusOK, ProfileView{
		User:        newUserView(u),
		Stats:       h.app.Stats(u.ID),
		IsFollowing: h.app.IsFollowing(viewerID, u.ID),
		IsMe:        viewerID == u.ID,
	})
}

// HandleUserPosts returns the user's posts, newest first.
//
// HTTP: GET /api/users/{id}/posts
func (h *UserHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if _, found := h.app.User(id); !found {
		writeError(w, apperror.NotFound("user", id))
		return
	}
	writeJSON(w, http.StatusOK, h.view.posts(viewerID, h.app.ProfileFeed(id)))
}

// HandleToggleFollow follows the user, or unfollows if already following.
//
// HTTP: POST /api/users/{id}/follow
func (h *UserHandler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	action, err := h.app.ToggleFollow(r.Context(), viewerID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FollowResponse{
		Action:    action,
		Following: action == service.Followed,
		Followers: h.app.Stats(id).FollowerCount,
	})
}

// HandleSearch matches ?q= against names and usernames.
//
// HTTP: GET /api/search?q=jane
//
// Queries shorter than two characters return an empty list, not an error.
func (h *UserHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, newUserViews(h.app.Search(r.URL.Query().Get("q"))))
}

// HTTP: GET /api/suggestions[?limit=n]
func (h *UserHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newUserViews(h.app.Suggestions(viewerID, queryLimit(r))))
}

// HTTP: GET /api/online[?limit=n]
func (h *UserHandler) HandleOnline(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newUserViews(h.app.OnlineUsers(viewerID, queryLimit(r))))
}
