package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
)

// DefaultRecentPostsLimit is how many posts the activity sidebar shows.
const DefaultRecentPostsLimit = 5

// ContentStore holds posts and comments.
//
// Posts are kept most-recent-first: CreatePost prepends. Every view derived
// from the store keeps that order instead of re-sorting by timestamp.
type ContentStore struct {
	state *model.State
	env   *env
	users *IdentityStore
	notes *NotificationCenter
}

func newContentStore(state *model.State, e *env, users *IdentityStore, notes *NotificationCenter) *ContentStore {
	return &ContentStore{state: state, env: e, users: users, notes: notes}
}

// CreatePost trims content and rejects it if nothing is left.
func (s *ContentStore) CreatePost(authorID, content string) (model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Post{}, apperror.EmptyContent("content")
	}
	author := s.users.user(authorID)
	if author == nil {
		return model.Post{}, apperror.NotFound("user", authorID)
	}

	p := model.Post{
		ID:         s.env.newID(),
		AuthorID:   authorID,
		Content:    content,
		CreatedAt:  s.env.now(),
		Likes:      []string{},
		CommentIDs: []string{},
		Shares:     0,
	}
	s.state.Posts = slices.Insert(s.state.Posts, 0, p)
	author.PostIDs = append(author.PostIDs, p.ID)
	return p.Clone(), nil
}

// ToggleLike adds userID to the post's likers, or removes it if already
// present, and reports whether the post is now liked.
//
// A like notifies the author even when the author likes their own post.
// Comments and shares skip self-notification; likes never did, and that
// asymmetry is kept on purpose until product decides otherwise.
func (s *ContentStore) ToggleLike(postID, userID string) (bool, error) {
	p := s.post(postID)
	if p == nil {
		return false, apperror.NotFound("post", postID)
	}
	actor := s.users.user(userID)
	if actor == nil {
		return false, apperror.NotFound("user", userID)
	}

	if i := slices.Index(p.Likes, userID); i >= 0 {
		p.Likes = slices.Delete(p.Likes, i, i+1)
		return false, nil
	}

	p.Likes = append(p.Likes, userID)
	s.notes.Notify(p.AuthorID, fmt.Sprintf("%s liked your post", actor.Name), model.NotificationLike)
	return true, nil
}

// AddComment attaches a trimmed, non-empty comment to a post and notifies
// the post's author unless they wrote the comment.
func (s *ContentStore) AddComment(postID, authorID, content string) (model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Comment{}, apperror.EmptyContent("comment")
	}
	p := s.post(postID)
	if p == nil {
		return model.Comment{}, apperror.NotFound("post", postID)
	}
	author := s.users.user(authorID)
	if author == nil {
		return model.Comment{}, apperror.NotFound("user", authorID)
	}

	c := model.Comment{
		ID:        s.env.newID(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.env.now(),
	}
	s.state.Comments = append(s.state.Comments, c)
	p.CommentIDs = append(p.CommentIDs, c.ID)

	if p.AuthorID != authorID {
		s.notes.Notify(p.AuthorID, fmt.Sprintf("%s commented on your post", author.Name), model.NotificationComment)
	}
	return c, nil
}

// SharePost bumps the share counter by one and notifies the author unless
// they shared their own post.
func (s *ContentStore) SharePost(postID, userID string) (model.Post, error) {
	p := s.post(postID)
	if p == nil {
		return model.Post{}, apperror.NotFound("post", postID)
	}
	sharer := s.users.user(userID)
	if sharer == nil {
		return model.Post{}, apperror.NotFound("user", userID)
	}

	p.Shares++
	if p.AuthorID != userID {
		s.notes.Notify(p.AuthorID, fmt.Sprintf("%s shared your post", sharer.Name), model.NotificationShare)
	}
	return p.Clone(), nil
}

// FindPost returns a copy of the post with the given ID.
func (s *ContentStore) FindPost(id string) (model.Post, bool) {
	if p := s.post(id); p != nil {
		return p.Clone(), true
	}
	return model.Post{}, false
}

// PostsByAuthor returns the author's posts in stored (newest-first) order.
func (s *ContentStore) PostsByAuthor(authorID string) []model.Post {
	return s.filter(func(p *model.Post) bool { return p.AuthorID == authorID })
}

// CommentsOf returns a post's comments oldest first.
func (s *ContentStore) CommentsOf(postID string) []model.Comment {
	out := []model.Comment{}
	for _, c := range s.state.Comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out
}

// RecentPosts returns the first limit posts of the global order.
func (s *ContentStore) RecentPosts(limit int) []model.Post {
	if limit <= 0 {
		limit = DefaultRecentPostsLimit
	}
	n := min(limit, len(s.state.Posts))
	out := make([]model.Post, 0, n)
	for _, p := range s.state.Posts[:n] {
		out = append(out, p.Clone())
	}
	return out
}

func (s *ContentStore) filter(keep func(*model.Post) bool) []model.Post {
	out := []model.Post{}
	for i := range s.state.Posts {
		if p := &s.state.Posts[i]; keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *ContentStore) post(id string) *model.Post {
	for i := range s.state.Posts {
		if s.state.Posts[i].ID == id {
			return &s.state.Posts[i]
		}
	}
	return nil
}
