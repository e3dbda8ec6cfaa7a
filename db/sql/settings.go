package sql

import (
	"github.com/pagedeck/pagedeck/db"
)

func (d *SqlDb) GetSettings(userID int) (settings db.Settings, err error) {
	err = d.selectOne(&settings,
		"select * from `settings` where user_id=?",
		userID)
	return
}

func (d *SqlDb) SetDarkMode(userID int, darkMode bool) (settings db.Settings, err error) {
	settings, err = d.GetSettings(userID)

	if err == db.ErrNotFound {
		var insertID int
		insertID, err = d.insert(
			"id",
			"insert into `settings` (user_id, dark_mode) values (?, ?)",
			userID,
			darkMode)
		if err != nil {
			return
		}
		settings = db.Settings{ID: insertID, UserID: userID, DarkMode: darkMode}
		return
	}

	if err != nil {
		return
	}

	_, err = d.exec(
		"update `settings` set dark_mode=? where user_id=?",
		darkMode,
		userID)
	if err != nil {
		return
	}

	settings.DarkMode = darkMode
	return
}

func (d *SqlDb) DeleteSettings(userID int) error {
	_, err := d.exec("delete from `settings` where user_id=?", userID)
	return err
}
