package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/socialhub/internal/handler"
)

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")

	t.Run("trims and publishes", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/posts", john.ID, map[string]string{"content": "  hello world \n"})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		p := decode[handler.PostView](t, rec)
		assert.Equal(t, "hello world", p.Content)
		assert.Equal(t, "johndoe", p.Author.Username)
		assert.Equal(t, "just now", p.TimeAgo)
		assert.Zero(t, p.Likes)
		assert.False(t, p.LikedByMe)
	})

	t.Run("blank content", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/posts", john.ID, map[string]string{"content": "   "})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[handler.ErrorResponse](t, rec)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "content", resp.Field)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/posts", "", map[string]string{"content": "hi"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestFeed(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")
	jane := ts.register("Jane Smith", "janesmith")
	mike := ts.register("Mike Johnson", "mikej")

	own := ts.post(john.ID, "mine")
	followed := ts.post(jane.ID, "from jane")
	ts.post(mike.ID, "from mike")
	_, err := ts.app.ToggleFollow(t.Context(), john.ID, jane.ID)
	require.NoError(t, err)

	rec := ts.do(http.MethodGet, "/api/feed", john.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]handler.PostView](t, rec)
	require.Len(t, feed, 2)
	assert.Equal(t, followed.ID, feed[0].ID, "newest first")
	assert.Equal(t, own.ID, feed[1].ID)
}

func TestFeed_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")

	rec := ts.do(http.MethodGet, "/api/feed", john.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestActivity(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")
	for _, c := range []string{"one", "two", "three"} {
		ts.post(john.ID, c)
	}

	rec := ts.do(http.MethodGet, "/api/activity?limit=2", john.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	activity := decode[[]handler.PostView](t, rec)
	require.Len(t, activity, 2)
	assert.Equal(t, "three", activity[0].Content)
	assert.Equal(t, "John Doe", activity[0].Author.Name)
}

func TestToggleLike(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")
	jane := ts.register("Jane Smith", "janesmith")
	p := ts.post(john.ID, "hello")

	rec := ts.do(http.MethodPost, "/api/posts/"+p.ID+"/like", jane.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.LikeResponse{Liked: true, Likes: 1}, decode[handler.LikeResponse](t, rec))

	rec = ts.do(http.MethodPost, "/api/posts/"+p.ID+"/like", jane.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.LikeResponse{Liked: false, Likes: 0}, decode[handler.LikeResponse](t, rec))

	rec = ts.do(http.MethodPost, "/api/posts/nope/like", jane.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikedByMe(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")
	jane := ts.register("Jane Smith", "janesmith")
	p := ts.post(john.ID, "hello")
	_, err := ts.app.ToggleLike(t.Context(), p.ID, jane.ID)
	require.NoError(t, err)

	asJane := decode[[]handler.PostView](t, ts.do(http.MethodGet, "/api/users/"+john.ID+"/posts", jane.ID, nil))
	asJohn := decode[[]handler.PostView](t, ts.do(http.MethodGet, "/api/users/"+john.ID+"/posts", john.ID, nil))

	require.Len(t, asJane, 1)
	require.Len(t, asJohn, 1)
	assert.True(t, asJane[0].LikedByMe)
	assert.False(t, asJohn[0].LikedByMe)
	assert.Equal(t, 1, asJohn[0].Likes)
}

func TestShare(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")
	jane := ts.register("Jane Smith", "janesmith")
	p := ts.post(john.ID, "hello")

	rec := ts.do(http.MethodPost, "/api/posts/"+p.ID+"/share", jane.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[handler.PostView](t, rec).Shares)
	assert.Equal(t, 1, ts.app.UnreadCount(john.ID))

	rec = ts.do(http.MethodPost, "/api/posts/nope/share", jane.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")
	jane := ts.register("Jane Smith", "janesmith")
	p := ts.post(john.ID, "hello")
	path := "/api/posts/" + p.ID + "/comments"

	rec := ts.do(http.MethodPost, path, jane.ID, map[string]string{"content": " nice "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := decode[handler.CommentView](t, rec)
	assert.Equal(t, "nice", c.Content)
	assert.Equal(t, p.ID, c.PostID)
	assert.Equal(t, "janesmith", c.Author.Username)

	rec = ts.do(http.MethodPost, path, jane.ID, map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, path, john.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decode[[]handler.CommentView](t, rec)
	require.Len(t, comments, 1)
	assert.Equal(t, c.ID, comments[0].ID)

	posts := decode[[]handler.PostView](t, ts.do(http.MethodGet, "/api/feed", john.ID, nil))
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Comments)
}

func TestComments_UnknownPost(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	john := ts.register("John Doe", "johndoe")

	rec := ts.do(http.MethodGet, "/api/posts/nope/comments", john.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/posts/nope/comments", john.ID, map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
