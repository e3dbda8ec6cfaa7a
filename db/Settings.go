package db

// Settings holds per-user preferences, one record per user.
type Settings struct {
	ID       int  `db:"id" json:"id"`
	UserID   int  `db:"user_id" json:"user_id"`
	DarkMode bool `db:"dark_mode" json:"darkMode"`
}
