package model

// State is the whole application aggregate: every collection the service
// owns plus the logged-in user. It is what the persistence gateway saves and
// loads as a single blob.
//
// All collections are flat. Entities reference each other by ID only, so the
// aggregate never contains cycles and serializes as-is.
//
// Posts are kept most-recent-first (new posts are prepended); every other
// collection is kept in insertion order.
type State struct {
	Users         []User         `json:"users"`
	Posts         []Post         `json:"posts"`
	Comments      []Comment      `json:"comments"`
	Notifications []Notification `json:"notifications"`
	Follows       []FollowEdge   `json:"followers"`
	CurrentUserID *string        `json:"currentUser"`
}

// NewState returns an empty aggregate with non-nil collections, so that an
// empty state serializes to [] rather than null.
func NewState() *State {
	s := &State{}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones. Call it after
// decoding a snapshot that may have been written by an older version.
func (s *State) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	if s.Follows == nil {
		s.Follows = []FollowEdge{}
	}
	for i := range s.Users {
		if s.Users[i].PostIDs == nil {
			s.Users[i].PostIDs = []string{}
		}
	}
	for i := range s.Posts {
		if s.Posts[i].Likes == nil {
			s.Posts[i].Likes = []string{}
		}
		if s.Posts[i].CommentIDs == nil {
			s.Posts[i].CommentIDs = []string{}
		}
	}
}
