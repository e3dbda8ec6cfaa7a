package db

import (
	"time"
)

type User struct {
	ID        int       `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"firstname"`
	LastName  string    `db:"last_name" json:"lastname"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"` // empty for social accounts
	GoogleID  *string   `db:"google_id" json:"-"`
	GithubID  *string   `db:"github_id" json:"-"`
	Avatar    string    `db:"avatar" json:"avatar"`
	Created   time.Time `db:"created" json:"created"`
}

// IsSocial reports whether the account was registered through an
// external identity provider and therefore has no local password.
func (u *User) IsSocial() bool {
	return u.GoogleID != nil || u.GithubID != nil
}

// FillUsername derives a username from the first and last name when
// none was supplied during signup.
func (u *User) FillUsername() {
	if u.Username == "" && u.FirstName != "" && u.LastName != "" {
		u.Username = u.FirstName + " " + u.LastName
	}
}

func (u *User) Validate() error {
	if u.Email == "" {
		return &ValidationError{"email can not be empty"}
	}
	return nil
}

// UserSummary is the public projection of a user embedded into invite
// payloads and search results.
type UserSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}
