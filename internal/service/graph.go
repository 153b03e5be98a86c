package service

import (
	"fmt"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
)

// FollowAction is the outcome of ToggleFollow.
type FollowAction string

const (
	Followed   FollowAction = "followed"
	Unfollowed FollowAction = "unfollowed"
)

// RelationshipGraph holds the follow edges between users.
//
// Edges are not indexed by either endpoint: every query filters the whole
// edge list, which is fine for single-session datasets.
type RelationshipGraph struct {
	state *model.State
	env   *env
	users *IdentityStore
	notes *NotificationCenter

	// notifyOnFollow sends "started following you" on every new edge.
	notifyOnFollow bool
}

func newRelationshipGraph(state *model.State, e *env, users *IdentityStore, notes *NotificationCenter) *RelationshipGraph {
	return &RelationshipGraph{state: state, env: e, users: users, notes: notes}
}

// Follow creates the edge follower → followed, or returns the existing one.
func (g *RelationshipGraph) Follow(followerID, followedID string) model.FollowEdge {
	if i := g.edgeIndex(followerID, followedID); i >= 0 {
		return g.state.Follows[i]
	}
	edge := model.FollowEdge{
		ID:         g.env.newID(),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  g.env.now(),
	}
	g.state.Follows = append(g.state.Follows, edge)
	return edge
}

// Unfollow removes the edge follower → followed if there is one.
func (g *RelationshipGraph) Unfollow(followerID, followedID string) {
	i := g.edgeIndex(followerID, followedID)
	if i < 0 {
		return
	}
	g.state.Follows = append(g.state.Follows[:i], g.state.Follows[i+1:]...)
}

// ToggleFollow removes the edge if it exists and creates it otherwise. When
// follow notifications are on, a new edge notifies the followed user, with
// no guard against notifying yourself. Following yourself is allowed.
func (g *RelationshipGraph) ToggleFollow(followerID, followedID string) (FollowAction, error) {
	follower := g.users.user(followerID)
	if follower == nil {
		return "", apperror.NotFound("user", followerID)
	}
	if g.users.user(followedID) == nil {
		return "", apperror.NotFound("user", followedID)
	}

	if g.IsFollowing(followerID, followedID) {
		g.Unfollow(followerID, followedID)
		return Unfollowed, nil
	}

	g.Follow(followerID, followedID)
	if g.notifyOnFollow {
		g.notes.Notify(followedID, fmt.Sprintf("%s started following you", follower.Name), model.NotificationFollow)
	}
	return Followed, nil
}

// IsFollowing reports whether the edge follower → followed exists.
func (g *RelationshipGraph) IsFollowing(followerID, followedID string) bool {
	return g.edgeIndex(followerID, followedID) >= 0
}

// FollowersOf returns the IDs of users following userID, in edge order.
func (g *RelationshipGraph) FollowersOf(userID string) []string {
	out := []string{}
	for _, e := range g.state.Follows {
		if e.FollowedID == userID {
			out = append(out, e.FollowerID)
		}
	}
	return out
}

// FollowingOf returns the IDs of users that userID follows, in edge order.
func (g *RelationshipGraph) FollowingOf(userID string) []string {
	out := []string{}
	for _, e := range g.state.Follows {
		if e.FollowerID == userID {
			out = append(out, e.FollowedID)
		}
	}
	return out
}

func (g *RelationshipGraph) edgeIndex(followerID, followedID string) int {
	for i, e := range g.state.Follows {
		if e.FollowerID == followerID && e.FollowedID == followedID {
			return i
		}
	}
	return -1
}
