// Package service contains the social core: the stores that own users,
// follow edges, posts, comments and notifications, and the feed composer
// that derives read-only views from them.
//
// Every store works on the same *model.State. None of them lock; App
// serialises access and persists the state after each mutation.
//
//	Handler (HTTP) → App (lock + persist) → stores → model.State
package service

import (
	"strings"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
)

// MinSearchQueryLength is the shortest query Search will run.
const MinSearchQueryLength = 2

// IdentityStore holds user records.
type IdentityStore struct {
	state *model.State
	env   *env
}

func newIdentityStore(state *model.State, e *env) *IdentityStore {
	return &IdentityStore{state: state, env: e}
}

// Register creates a user. It fails with DuplicateIdentity when any existing
// user has the same email or the same username (exact, case-sensitive).
func (s *IdentityStore) Register(name, username, email, password string) (model.User, error) {
	if strings.TrimSpace(name) == "" {
		return model.User{}, apperror.ValidationFailed("name", "name is required")
	}
	if strings.TrimSpace(username) == "" {
		return model.User{}, apperror.ValidationFailed("username", "username is required")
	}
	if strings.TrimSpace(email) == "" {
		return model.User{}, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return model.User{}, apperror.ValidationFailed("password", "password is required")
	}

	for _, u := range s.state.Users {
		if u.Email == email || u.Username == username {
			return model.User{}, apperror.DuplicateIdentity()
		}
	}

	u := model.User{
		ID:       s.env.newID(),
		Name:     name,
		Username: username,
		Email:    email,
		Password: password,
		Avatar:   model.AvatarFor(name),
		JoinedAt: s.env.now(),
		PostIDs:  []string{},
	}
	s.state.Users = append(s.state.Users, u)
	return u.Clone(), nil
}

// Authenticate returns the first user whose email and password both match.
func (s *IdentityStore) Authenticate(email, password string) (model.User, error) {
	for _, u := range s.state.Users {
		if u.Email == email && u.Password == password {
			return u.Clone(), nil
		}
	}
	return model.User{}, apperror.InvalidCredentials()
}

// UpdateProfile rewrites the editable profile fields and re-derives the
// avatar. Keeping your own username is not a collision.
func (s *IdentityStore) UpdateProfile(userID, name, username, bio, location string) (model.User, error) {
	u := s.user(userID)
	if u == nil {
		return model.User{}, apperror.NotFound("user", userID)
	}
	if strings.TrimSpace(name) == "" {
		return model.User{}, apperror.ValidationFailed("name", "name is required")
	}
	if strings.TrimSpace(username) == "" {
		return model.User{}, apperror.ValidationFailed("username", "username is required")
	}

	for _, other := range s.state.Users {
		if other.Username == username && other.ID != userID {
			return model.User{}, apperror.UsernameTaken(username)
		}
	}

	u.Name = name
	u.Username = username
	u.Bio = bio
	u.Location = location
	u.Avatar = model.AvatarFor(name)
	return u.Clone(), nil
}

// FindByID looks a user up by ID. A miss is reported through ok, not as an
// error; the caller decides whether that matters.
func (s *IdentityStore) FindByID(id string) (model.User, bool) {
	if u := s.user(id); u != nil {
		return u.Clone(), true
	}
	return model.User{}, false
}

// FindByUsername is FindByID keyed on the (case-sensitive) username.
func (s *IdentityStore) FindByUsername(username string) (model.User, bool) {
	for _, u := range s.state.Users {
		if u.Username == username {
			return u.Clone(), true
		}
	}
	return model.User{}, false
}

// Search matches query as a case-insensitive substring of the name or the
// username. Queries shorter than MinSearchQueryLength return nothing.
func (s *IdentityStore) Search(query string) []model.User {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []model.User{}
	if len([]rune(q)) < MinSearchQueryLength {
		return out
	}
	for _, u := range s.state.Users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u.Clone())
		}
	}
	return out
}

// user returns a pointer into the state so the store can mutate in place.
func (s *IdentityStore) user(id string) *model.User {
	for i := range s.state.Users {
		if s.state.Users[i].ID == id {
			return &s.state.Users[i]
		}
	}
	return nil
}
