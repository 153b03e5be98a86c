package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/service"
)

// PostHandler serves posts, their reactions and comments, and the two
// feeds built from them.
type PostHandler struct {
	app    *service.App
	view   presenter
	logger *slog.Logger
}

func NewPostHandler(app *service.App, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		app:    app,
		view:   presenter{app: app, now: time.Now},
		logger: logger,
	}
}

type contentRequest struct {
	Content string `json:"content"`
}

// LikeResponse reports the post's like state after a toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// HandleFeed returns the home feed: the viewer's posts and the posts of
// everyone they follow, newest first.
//
// HTTP: GET /api/feed
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.view.posts(viewerID, h.app.HomeFeed(viewerID)))
}

// HandleActivity returns the most recent posts across everyone.
//
// HTTP: GET /api/activity[?limit=n]
func (h *PostHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	activity := h.app.ActivityFeed(queryLimit(r))
	out := make([]PostView, 0, len(activity))
	now := h.view.now()
	for _, a := range activity {
		out = append(out, newPostView(now, viewerID, a.Post, a.Author))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate publishes a post for the logged-in user.
//
// HTTP: POST /api/posts
// REQUEST BODY: {"content":"hello"}
// 201 with the post; 400 if the content is blank.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.app.CreatePost(r.Context(), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writePost(w, http.StatusCreated, userID, p.ID)
}

// HandleToggleLike likes the post, or unlikes it if already liked.
//
// HTTP: POST /api/posts/{id}/like
func (h *PostHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "id")

	liked, err := h.app.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	p, _ := h.app.Post(postID)
	writeJSON(w, http.StatusOK, LikeResponse{Liked: liked, Likes: len(p.Likes)})
}

// HandleShare bumps the post's share counter.
//
// HTTP: POST /api/posts/{id}/share
func (h *PostHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "id")

	if _, err := h.app.SharePost(r.Context(), postID, userID); err != nil {
		writeError(w, err)
		return
	}
	h.writePost(w, http.StatusOK, userID, postID)
}

// HandleListComments returns a post's comments, oldest first.
//
// HTTP: GET /api/posts/{id}/comments
func (h *PostHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	comments, err := h.app.Comments(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view.comments(comments))
}

// HandleAddComment comments on a post.
//
// HTTP: POST /api/posts/{id}/comments
// REQUEST BODY: {"content":"nice"}
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.app.AddComment(r.Context(), chi.URLParam(r, "id"), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	views := h.view.comments([]model.Comment{c})
	if len(views) == 0 {
		writeError(w, apperror.NotFound("user", userID))
		return
	}
	writeJSON(w, http.StatusCreated, views[0])
}

// writePost re-reads the post so the response reflects the stored state.
func (h *PostHandler) writePost(w http.ResponseWriter, status int, viewerID, postID string) {
	p, found := h.app.Post(postID)
	if !found {
		writeError(w, apperror.NotFound("post", postID))
		return
	}
	view, ok := h.view.post(viewerID, p)
	if !ok {
		writeError(w, apperror.NotFound("user", p.AuthorID))
		return
	}
	writeJSON(w, status, view)
}
