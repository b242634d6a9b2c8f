package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User mirrors the remote user record. Author fields on posts use the same shape.
type User struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ProfilePicture []byte  `json:"profilePicture,omitempty"`
	Score          float64 `json:"score"`
	Role           string  `json:"role,omitempty"`
	Banned         bool    `json:"banned,omitempty"`
	Bio            string  `json:"bio,omitempty"`
	Followers      int     `json:"followers,omitempty"`
	Following      int     `json:"following,omitempty"`
}

// Initial returns the upper-cased first letter of the username, used as avatar fallback.
func (u *User) Initial() string {
	if u == nil || u.Username == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(u.Username)
	return string(unicode.ToUpper(r))
}

// SessionUser is the record held in the session cache.
type SessionUser struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Complete reports whether all three cached identifiers are present.
func (s *SessionUser) Complete() bool {
	return s != nil && s.UserID > 0 && strings.TrimSpace(s.Username) != "" && strings.TrimSpace(s.Email) != ""
}

// AsUser converts the cached identifiers into a minimal User for rendering.
func (s *SessionUser) AsUser() *User {
	if s == nil {
		return nil
	}
	return &User{ID: s.UserID, Username: s.Username, Email: s.Email}
}
