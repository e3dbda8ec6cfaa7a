package bolt

import (
	"time"

	"github.com/pagedeck/pagedeck/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) GetSession(sessionID string) (session db.Session, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		return getObject(tx.Bucket([]byte("sessions")), []byte(sessionID), &session)
	})
	return
}

func (d *BoltDb) CreateSession(session db.Session) (db.Session, error) {
	err := d.db.Update(func(tx *bbolt.Tx) error {
		return putObject(tx.Bucket([]byte("sessions")), []byte(session.ID), session)
	})
	return session, err
}

func (d *BoltDb) TouchSession(sessionID string, now time.Time) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("sessions"))
		var s db.Session
		if err := getObject(b, []byte(sessionID), &s); err != nil {
			return err
		}
		s.LastUsed = now
		return putObject(b, []byte(sessionID), s)
	})
}

func (d *BoltDb) ExpireSession(sessionID string) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("sessions"))
		var s db.Session
		if err := getObject(b, []byte(sessionID), &s); err != nil {
			return err
		}
		s.Expired = true
		return putObject(b, []byte(sessionID), s)
	})
}

// ExpireSessionsOlderThan deletes sessions whose last use predates the
// cutoff. Called from the periodic cleanup job.
func (d *BoltDb) ExpireSessionsOlderThan(cutoff time.Time) (n int, err error) {
	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("sessions"))
		c := b.Cursor()
		var stale [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var s db.Session
			if e := unmarshalValue(v, &s); e != nil {
				return e
			}
			if s.Expired || s.LastUsed.Before(cutoff) {
				key := make([]byte, len(k))
				copy(key, k)
				stale = append(stale, key)
			}
		}
		for _, k := range stale {
			if e := b.Delete(k); e != nil {
				return e
			}
		}
		n = len(stale)
		return nil
	})
	return
}

func (d *BoltDb) DeleteSessionsByUser(userID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("sessions"))
		c := b.Cursor()
		var keys [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var s db.Session
			if e := unmarshalValue(v, &s); e != nil {
				return e
			}
			if s.UserID == userID {
				key := make([]byte, len(k))
				copy(key, k)
				keys = append(keys, key)
			}
		}
		for _, k := range keys {
			if e := b.Delete(k); e != nil {
				return e
			}
		}
		return nil
	})
}
