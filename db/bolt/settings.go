package bolt

import (
	"github.com/pagedeck/pagedeck/db"
	"go.etcd.io/bbolt"
)

// Settings records are keyed by user id: there is exactly one per user.

func (d *BoltDb) GetSettings(userID int) (settings db.Settings, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		return getObject(tx.Bucket([]byte("settings")), intKey(userID), &settings)
	})
	return
}

func (d *BoltDb) SetDarkMode(userID int, darkMode bool) (settings db.Settings, err error) {
	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("settings"))
		if e := getObject(b, intKey(userID), &settings); e != nil {
			if e != db.ErrNotFound {
				return e
			}
			settings = db.Settings{ID: userID, UserID: userID}
		}
		settings.DarkMode = darkMode
		return putObject(b, intKey(userID), settings)
	})
	return
}

func (d *BoltDb) DeleteSettings(userID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte("settings")).Delete(intKey(userID))
	})
}
