package sql

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pagedeck/pagedeck/db"
)

func (d *SqlDb) GetInvite(inviteID int) (invite db.Invite, err error) {
	err = d.selectOne(&invite,
		"select * from `invite` where id=?",
		inviteID)
	return
}

func (d *SqlDb) GetPendingInvite(senderID int, receiverID int, pageID *int) (invite db.Invite, err error) {
	q := squirrel.Select("*").
		From("`invite`").
		Where("sender_id=?", senderID).
		Where("receiver_id=?", receiverID).
		Where("status=?", db.InvitePending)

	if pageID == nil {
		q = q.Where("page_id is null")
	} else {
		q = q.Where("page_id=?", *pageID)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return
	}

	err = d.selectOne(&invite, query, args...)
	return
}

func (d *SqlDb) GetReceivedInvites(receiverID int, status db.InviteStatus) ([]db.Invite, error) {
	return d.getInvites("receiver_id", receiverID, status)
}

func (d *SqlDb) GetSentInvites(senderID int, status db.InviteStatus) ([]db.Invite, error) {
	return d.getInvites("sender_id", senderID, status)
}

func (d *SqlDb) getInvites(userColumn string, userID int, status db.InviteStatus) (invites []db.Invite, err error) {
	invites = []db.Invite{}

	q := squirrel.Select("*").
		From("`invite`").
		Where(userColumn+"=?", userID).
		OrderBy("created DESC")

	if status != db.InviteStatusAny {
		q = q.Where("status=?", status)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return
	}

	err = d.selectAll(&invites, query, args...)
	return
}

func (d *SqlDb) CreateInvite(invite db.Invite) (newInvite db.Invite, err error) {
	now := time.Now()
	if invite.Status == "" {
		invite.Status = db.InvitePending
	}
	invite.Created = now
	invite.Updated = now

	insertID, err := d.insert(
		"id",
		"insert into `invite` (sender_id, receiver_id, page_id, status, created, updated) values (?, ?, ?, ?, ?, ?)",
		invite.SenderID,
		invite.ReceiverID,
		invite.PageID,
		invite.Status,
		invite.Created,
		invite.Updated)

	if err != nil {
		return
	}

	newInvite = invite
	newInvite.ID = insertID
	return
}

// UpdateInviteStatus relies on the database matching both the id and
// the current pending status in one statement, so a lost race shows
// up as zero affected rows.
func (d *SqlDb) UpdateInviteStatus(inviteID int, status db.InviteStatus) (invite db.Invite, err error) {
	res, err := d.exec(
		"update `invite` set status=?, updated=? where id=? and status=?",
		status,
		time.Now(),
		inviteID,
		db.InvitePending)

	if err != nil {
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return
	}

	if affected == 0 {
		err = db.ErrNotFound
		return
	}

	return d.GetInvite(inviteID)
}
