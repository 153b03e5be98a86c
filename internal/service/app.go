package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/repository"
)

// Options tune how Open builds an App.
type Options struct {
	// SeedSampleData registers the demo accounts when no users exist yet.
	SeedSampleData bool

	// NotifyOnFollow makes ToggleFollow notify the followed user.
	NotifyOnFollow bool

	// Now and NewID override the clock and ID generator. Tests only.
	Now   func() time.Time
	NewID func() string
}

// App is the application context. It owns the state aggregate and the stores
// built on top of it, and is the only entry point the presentation layer
// uses.
//
// Every method takes the same mutex, so operations run one at a time and
// always to completion. Methods that change state save a full snapshot
// through the gateway before they return.
type App struct {
	mu      sync.Mutex
	state   *model.State
	gateway repository.StateGateway
	logger  *slog.Logger

	users   *IdentityStore
	graph   *RelationshipGraph
	content *ContentStore
	notes   *NotificationCenter
	feed    *FeedComposer
}

// Open loads the saved state from gateway, or starts empty when nothing has
// been saved. A nil gateway keeps everything in memory.
func Open(ctx context.Context, gateway repository.StateGateway, logger *slog.Logger, opts Options) (*App, error) {
	state := model.NewState()
	if gateway != nil {
		loaded, err := gateway.Load(ctx)
		switch {
		case err == nil:
			state = loaded
		case errors.Is(err, apperror.ErrNotFound):
			logger.Info("no saved state, starting empty")
		default:
			return nil, fmt.Errorf("service/app: loading state: %w", err)
		}
	}

	e := defaultEnv()
	if opts.Now != nil {
		e.now = opts.Now
	}
	if opts.NewID != nil {
		e.newID = opts.NewID
	}

	a := newApp(state, e, gateway, logger)
	a.graph.notifyOnFollow = opts.NotifyOnFollow

	if opts.SeedSampleData && len(state.Users) == 0 {
		seedSampleUsers(state, e)
		if err := a.save(ctx); err != nil {
			return nil, err
		}
		logger.Info("seeded sample users", slog.Int("count", len(state.Users)))
	}

	logger.Info("state loaded",
		slog.Int("users", len(state.Users)),
		slog.Int("posts", len(state.Posts)),
		slog.Int("follows", len(state.Follows)),
	)
	return a, nil
}

func newApp(state *model.State, e *env, gateway repository.StateGateway, logger *slog.Logger) *App {
	users := newIdentityStore(state, e)
	notes := newNotificationCenter(state, e)
	graph := newRelationshipGraph(state, e, users, notes)
	content := newContentStore(state, e, users, notes)
	return &App{
		state:   state,
		gateway: gateway,
		logger:  logger,
		users:   users,
		graph:   graph,
		content: content,
		notes:   notes,
		feed:    newFeedComposer(users, graph, content),
	}
}

// save snapshots the whole state. Callers hold a.mu.
func (a *App) save(ctx context.Context) error {
	if a.gateway == nil {
		return nil
	}
	if err := a.gateway.Save(ctx, a.state); err != nil {
		a.logger.Error("failed to save state", slog.String("error", err.Error()))
		return fmt.Errorf("service/app: saving state: %w", err)
	}
	return nil
}

// =========================================================================
// SESSION AND IDENTITY
// =========================================================================

// Register creates the account and logs it in.
func (a *App) Register(ctx context.Context, name, username, email, password string) (model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.users.Register(name, username, email, password)
	if err != nil {
		return model.User{}, err
	}
	a.state.CurrentUserID = &u.ID
	if err := a.save(ctx); err != nil {
		return model.User{}, err
	}

	a.logger.Info("user registered", slog.String("userID", u.ID), slog.String("username", u.Username))
	return u, nil
}

// Login authenticates and records the user as the current session.
func (a *App) Login(ctx context.Context, email, password string) (model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.users.Authenticate(email, password)
	if err != nil {
		a.logger.Warn("login failed", slog.String("email", email))
		return model.User{}, err
	}
	a.state.CurrentUserID = &u.ID
	if err := a.save(ctx); err != nil {
		return model.User{}, err
	}

	a.logger.Info("user logged in", slog.String("userID", u.ID))
	return u, nil
}

// Logout clears the current session.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.CurrentUserID = nil
	return a.save(ctx)
}

// CurrentUser returns the logged-in user, if any.
func (a *App) CurrentUser() (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.CurrentUserID == nil {
		return model.User{}, false
	}
	return a.users.FindByID(*a.state.CurrentUserID)
}

// UpdateProfile edits the user's name, username, bio and location.
func (a *App) UpdateProfile(ctx context.Context, userID, name, username, bio, location string) (model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.users.UpdateProfile(userID, name, username, bio, location)
	if err != nil {
		return model.User{}, err
	}
	if err := a.save(ctx); err != nil {
		return model.User{}, err
	}

	a.logger.Info("profile updated", slog.String("userID", u.ID), slog.String("username", u.Username))
	return u, nil
}

func (a *App) User(id string) (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.FindByID(id)
}

func (a *App) UserByUsername(username string) (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.FindByUsername(username)
}

func (a *App) Search(query string) []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.Search(query)
}

// =========================================================================
// RELATIONSHIPS
// =========================================================================

// ToggleFollow follows or unfollows followedID on behalf of followerID.
func (a *App) ToggleFollow(ctx context.Context, followerID, followedID string) (FollowAction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	action, err := a.graph.ToggleFollow(followerID, followedID)
	if err != nil {
		return "", err
	}
	if err := a.save(ctx); err != nil {
		return "", err
	}

	a.logger.Info("follow toggled",
		slog.String("follower", followerID),
		slog.String("followed", followedID),
		slog.String("action", string(action)),
	)
	return action, nil
}

func (a *App) IsFollowing(followerID, followedID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph.IsFollowing(followerID, followedID)
}

func (a *App) FollowersOf(userID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph.FollowersOf(userID)
}

func (a *App) FollowingOf(userID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph.FollowingOf(userID)
}

// =========================================================================
// CONTENT
// =========================================================================

func (a *App) CreatePost(ctx context.Context, authorID, content string) (model.Post, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.content.CreatePost(authorID, content)
	if err != nil {
		return model.Post{}, err
	}
	if err := a.save(ctx); err != nil {
		return model.Post{}, err
	}

	a.logger.Info("post created", slog.String("postID", p.ID), slog.String("authorID", authorID))
	return p, nil
}

// ToggleLike reports whether the post is liked by userID afterwards.
func (a *App) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	liked, err := a.content.ToggleLike(postID, userID)
	if err != nil {
		return false, err
	}
	if err := a.save(ctx); err != nil {
		return false, err
	}
	return liked, nil
}

func (a *App) AddComment(ctx context.Context, postID, authorID, content string) (model.Comment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.content.AddComment(postID, authorID, content)
	if err != nil {
		return model.Comment{}, err
	}
	if err := a.save(ctx); err != nil {
		return model.Comment{}, err
	}

	a.logger.Info("comment added", slog.String("postID", postID), slog.String("commentID", c.ID))
	return c, nil
}

func (a *App) SharePost(ctx context.Context, postID, userID string) (model.Post, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.content.SharePost(postID, userID)
	if err != nil {
		return model.Post{}, err
	}
	if err := a.save(ctx); err != nil {
		return model.Post{}, err
	}
	return p, nil
}

func (a *App) Post(id string) (model.Post, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.content.FindPost(id)
}

// Comments returns the post's comments oldest first, or NotFound for an
// unknown post.
func (a *App) Comments(postID string) ([]model.Comment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.content.FindPost(postID); !ok {
		return nil, apperror.NotFound("post", postID)
	}
	return a.content.CommentsOf(postID), nil
}

// =========================================================================
// NOTIFICATIONS
// =========================================================================

func (a *App) Notifications(userID string) []model.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.notes.ListFor(userID)
}

func (a *App) UnreadCount(userID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.notes.UnreadCountFor(userID)
}

// MarkRead marks one of userID's notifications as read. An unknown ID is a
// silent no-op; someone else's notification is Forbidden.
func (a *App) MarkRead(ctx context.Context, userID, notificationID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, ok := a.notes.Find(notificationID)
	if !ok {
		return nil
	}
	if n.UserID != userID {
		return apperror.Forbidden("you can only mark your own notifications as read")
	}
	if !a.notes.MarkRead(notificationID) {
		return nil
	}
	return a.save(ctx)
}

// MarkAllRead marks every notification of userID as read.
func (a *App) MarkAllRead(ctx context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.notes.MarkAllReadFor(userID) == 0 {
		return nil
	}
	return a.save(ctx)
}

// =========================================================================
// DERIVED VIEWS
// =========================================================================

func (a *App) HomeFeed(viewerID string) []model.Post {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed.HomeFeed(viewerID)
}

func (a *App) ProfileFeed(userID string) []model.Post {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed.ProfileFeed(userID)
}

func (a *App) Stats(userID string) Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed.Stats(userID)
}

func (a *App) Suggestions(viewerID string, limit int) []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed.Suggestions(viewerID, limit)
}

func (a *App) ActivityFeed(limit int) []Activity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed.ActivityFeed(limit)
}

func (a *App) OnlineUsers(viewerID string, limit int) []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed.OnlineUsers(viewerID, limit)
}

// Authors resolves a set of user IDs for display. Unknown IDs are omitted.
func (a *App) Authors(ids []string) map[string]model.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]model.User, len(ids))
	for _, id := range ids {
		if u, ok := a.users.FindByID(id); ok {
			out[id] = u
		}
	}
	return out
}
