package model

import (
	"slices"
	"time"
)

// Post is a short message authored by a user.
//
// Likes holds the IDs of users who currently like the post. It behaves as a
// set: toggling a like adds or removes the ID, it never appears twice.
// Shares only ever goes up.
type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	Likes      []string  `json:"likes"`
	CommentIDs []string  `json:"comments"`
	Shares     int       `json:"shares"`
}

// LikedBy reports whether userID is in the post's liker set.
func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	p.Likes = append([]string{}, p.Likes...)
	p.CommentIDs = append([]string{}, p.CommentIDs...)
	return p
}

// Comment is a reply to a post. Comments are immutable once created.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
