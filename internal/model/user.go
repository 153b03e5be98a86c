// Package model defines the data structures used throughout the application.
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// User represents a registered account.
//
// Password is stored and compared as an opaque string. There is no hashing:
// credentials are checked by plain equality. It is persisted with the rest
// of the user so the state snapshot round-trips losslessly.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"` // unique, case-sensitive
	Email    string    `json:"email"`    // unique
	Password string    `json:"password"`
	Bio      string    `json:"bio"`
	Location string    `json:"location"`
	Avatar   string    `json:"avatar"` // derived from Name, see AvatarFor
	JoinedAt time.Time `json:"joinedAt"`
	PostIDs  []string  `json:"posts"` // authored post IDs, oldest first
}

// AvatarFor derives the avatar label for a display name: its first
// character, uppercased. An empty name yields an empty label.
func AvatarFor(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

// Clone returns a deep copy so callers can't mutate stored state.
func (u User) Clone() User {
	u.PostIDs = append([]string{}, u.PostIDs...)
	return u
}
