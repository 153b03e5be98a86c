package service

import (
	"slices"

	"github.com/sakif/socialhub/internal/model"
)

const (
	DefaultSuggestionLimit  = 3
	DefaultOnlineUsersLimit = 4
)

// Stats are the three counters shown on a profile.
type Stats struct {
	PostCount      int `json:"posts"`
	FollowerCount  int `json:"followers"`
	FollowingCount int `json:"following"`
}

// Activity pairs a recent post with its author for the activity sidebar.
type Activity struct {
	Post   model.Post
	Author model.User
}

// FeedComposer derives read-only views from the other stores. It keeps no
// state of its own and never mutates anything.
type FeedComposer struct {
	users   *IdentityStore
	graph   *RelationshipGraph
	content *ContentStore
}

func newFeedComposer(users *IdentityStore, graph *RelationshipGraph, content *ContentStore) *FeedComposer {
	return &FeedComposer{users: users, graph: graph, content: content}
}

// HomeFeed returns every post written by the viewer or by someone the viewer
// follows, in stored order.
func (f *FeedComposer) HomeFeed(viewerID string) []model.Post {
	authors := map[string]struct{}{viewerID: {}}
	for _, id := range f.graph.FollowingOf(viewerID) {
		authors[id] = struct{}{}
	}
	return f.content.filter(func(p *model.Post) bool {
		_, ok := authors[p.AuthorID]
		return ok
	})
}

// ProfileFeed returns the posts written by userID, in stored order.
func (f *FeedComposer) ProfileFeed(userID string) []model.Post {
	return f.content.PostsByAuthor(userID)
}

// Stats is computed fresh on each call.
func (f *FeedComposer) Stats(userID string) Stats {
	return Stats{
		PostCount:      len(f.content.PostsByAuthor(userID)),
		FollowerCount:  len(f.graph.FollowersOf(userID)),
		FollowingCount: len(f.graph.FollowingOf(userID)),
	}
}

// Suggestions lists users the viewer might follow: everyone except the viewer
// and the users already followed, in registration order, capped at limit.
func (f *FeedComposer) Suggestions(viewerID string, limit int) []model.User {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	following := f.graph.FollowingOf(viewerID)

	out := []model.User{}
	for _, u := range f.users.state.Users {
		if len(out) == limit {
			break
		}
		if u.ID == viewerID || slices.Contains(following, u.ID) {
			continue
		}
		out = append(out, u.Clone())
	}
	return out
}

// ActivityFeed returns the most recent posts across all users. Posts whose
// author can't be found are left out.
func (f *FeedComposer) ActivityFeed(limit int) []Activity {
	out := []Activity{}
	for _, p := range f.content.RecentPosts(limit) {
		author, ok := f.users.FindByID(p.AuthorID)
		if !ok {
			continue
		}
		out = append(out, Activity{Post: p, Author: author})
	}
	return out
}

// OnlineUsers is simulated presence: the first users other than the viewer.
func (f *FeedComposer) OnlineUsers(viewerID string, limit int) []model.User {
	if limit <= 0 {
		limit = DefaultOnlineUsersLimit
	}
	out := []model.User{}
	for _, u := range f.users.state.Users {
		if len(out) == limit {
			break
		}
		if u.ID != viewerID {
			out = append(out, u.Clone())
		}
	}
	return out
}
