package db

import (
	"time"
)

// Session is a server-side login session. The cookie only carries the
// session id; everything else lives in the store.
type Session struct {
	ID       string    `db:"id" json:"id"`
	UserID   int       `db:"user_id" json:"user_id"`
	Created  time.Time `db:"created" json:"created"`
	LastUsed time.Time `db:"last_used" json:"last_used"`
	Expired  bool      `db:"expired" json:"expired"`
}

func (s *Session) IsExpired(lifetime time.Duration, now time.Time) bool {
	return s.Expired || now.Sub(s.LastUsed) > lifetime
}
