package handler

import (
	"time"

	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/service"
)

// The view types are what the API sends. They never carry a password, and
// only MeView carries an email.

type UserView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Bio      string    `json:"bio"`
	Location string    `json:"location"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joinedAt"`
}

// MeView is the logged-in user's own profile.
type MeView struct {
	UserView
	Email string        `json:"email"`
	Stats service.Stats `json:"stats"`
}

// ProfileView is someone's profile as seen by the viewer.
type ProfileView struct {
	User        UserView      `json:"user"`
	Stats       service.Stats `json:"stats"`
	IsFollowing bool          `json:"isFollowing"`
	IsMe        bool          `json:"isMe"`
}

// AuthorView is the slice of a user shown next to a post or comment.
type AuthorView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type PostView struct {
	ID        string     `json:"id"`
	Author    AuthorView `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	TimeAgo   string     `json:"timeAgo"`
	Likes     int        `json:"likes"`
	LikedByMe bool       `json:"likedByMe"`
	Comments  int        `json:"comments"`
	Shares    int        `json:"shares"`
}

type CommentView struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	Author    AuthorView `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	TimeAgo   string     `json:"timeAgo"`
}

type NotificationView struct {
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Type      model.NotificationType `json:"type"`
	Icon      string                 `json:"icon"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"createdAt"`
	TimeAgo   string                 `json:"timeAgo"`
}

func newUserView(u model.User) UserView {
	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Bio:      u.Bio,
		Location: u.Location,
		Avatar:   u.Avatar,
		JoinedAt: u.JoinedAt,
	}
}

func newUserViews(users []model.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, newUserView(u))
	}
	return out
}

func newAuthorView(u model.User) AuthorView {
	return AuthorView{ID: u.ID, Name: u.Name, Username: u.Username, Avatar: u.Avatar}
}

func newPostView(now time.Time, viewerID string, p model.Post, author model.User) PostView {
	return PostView{
		ID:        p.ID,
		Author:    newAuthorView(author),
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		TimeAgo:   timeAgo(now, p.CreatedAt),
		Likes:     len(p.Likes),
		LikedByMe: p.LikedBy(viewerID),
		Comments:  len(p.CommentIDs),
		Shares:    p.Shares,
	}
}

// presenter turns core records into views. It resolves authors through the
// App in one call per response.
type presenter struct {
	app *service.App
	now func() time.Time
}

func (p presenter) me(u model.User) MeView {
	return MeView{
		UserView: newUserView(u),
		Email:    u.Email,
		Stats:    p.app.Stats(u.ID),
	}
}

// posts renders posts for viewerID. Posts whose author no longer resolves
// are dropped, the same way the activity feed drops them.
func (p presenter) posts(viewerID string, posts []model.Post) []PostView {
	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.AuthorID)
	}
	authors := p.app.Authors(ids)
	now := p.now()

	out := make([]PostView, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			continue
		}
		out = append(out, newPostView(now, viewerID, post, author))
	}
	return out
}

func (p presenter) post(viewerID string, post model.Post) (PostView, bool) {
	views := p.posts(viewerID, []model.Post{post})
	if len(views) == 0 {
		return PostView{}, false
	}
	return views[0], true
}

func (p presenter) comments(comments []model.Comment) []CommentView {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors := p.app.Authors(ids)
	now := p.now()

	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.AuthorID]
		if !ok {
			continue
		}
		out = append(out, CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Author:    newAuthorView(author),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			TimeAgo:   timeAgo(now, c.CreatedAt),
		})
	}
	return out
}

func (p presenter) notifications(notes []model.Notification) []NotificationView {
	now := p.now()
	out := make([]NotificationView, 0, len(notes))
	for _, n := range notes {
		out = append(out, NotificationView{
			ID:        n.ID,
			Message:   n.Message,
			Type:      n.Type,
			Icon:      service.NotificationIcon(n.Type),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
			TimeAgo:   timeAgo(now, n.CreatedAt),
		})
	}
	return out
}
