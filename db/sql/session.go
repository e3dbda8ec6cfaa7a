package sql

import (
	"time"

	"github.com/pagedeck/pagedeck/db"
)

func (d *SqlDb) GetSession(sessionID string) (session db.Session, err error) {
	err = d.selectOne(&session,
		"select * from `session` where id=?",
		sessionID)
	return
}

func (d *SqlDb) CreateSession(session db.Session) (db.Session, error) {
	_, err := d.exec(
		"insert into `session` (id, user_id, created, last_used, expired) values (?, ?, ?, ?, ?)",
		session.ID,
		session.UserID,
		session.Created,
		session.LastUsed,
		session.Expired)
	return session, err
}

func (d *SqlDb) TouchSession(sessionID string, now time.Time) error {
	res, err := d.exec(
		"update `session` set last_used=? where id=?",
		now,
		sessionID)
	return validateMutationResult(res, err)
}

func (d *SqlDb) ExpireSession(sessionID string) error {
	res, err := d.exec(
		"update `session` set expired=? where id=?",
		true,
		sessionID)
	return validateMutationResult(res, err)
}

func (d *SqlDb) ExpireSessionsOlderThan(cutoff time.Time) (int, error) {
	res, err := d.exec(
		"delete from `session` where expired=? or last_used<?",
		true,
		cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

func (d *SqlDb) DeleteSessionsByUser(userID int) error {
	_, err := d.exec("delete from `session` where user_id=?", userID)
	return err
}
