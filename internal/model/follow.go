package model

import "time"

// FollowEdge records that FollowerID follows FollowedID.
// There is at most one edge per ordered (follower, followed) pair.
type FollowEdge struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"followerId"`
	FollowedID string    `json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}
