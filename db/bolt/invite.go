package bolt

import (
	"sort"
	"time"

	"github.com/pagedeck/pagedeck/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) GetInvite(inviteID int) (invite db.Invite, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		return getObject(tx.Bucket([]byte("invites")), intKey(inviteID), &invite)
	})
	return
}

func (d *BoltDb) GetPendingInvite(senderID int, receiverID int, pageID *int) (invite db.Invite, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte("invites")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var inv db.Invite
			if e := unmarshalValue(v, &inv); e != nil {
				return e
			}
			if inv.SenderID == senderID &&
				inv.ReceiverID == receiverID &&
				inv.Status == db.InvitePending &&
				samePageRef(inv.PageID, pageID) {
				invite = inv
				return nil
			}
		}
		return db.ErrNotFound
	})
	return
}

func (d *BoltDb) GetReceivedInvites(receiverID int, status db.InviteStatus) ([]db.Invite, error) {
	return d.filterInvites(func(inv db.Invite) bool {
		return inv.ReceiverID == receiverID && matchStatus(inv, status)
	})
}

func (d *BoltDb) GetSentInvites(senderID int, status db.InviteStatus) ([]db.Invite, error) {
	return d.filterInvites(func(inv db.Invite) bool {
		return inv.SenderID == senderID && matchStatus(inv, status)
	})
}

func (d *BoltDb) CreateInvite(invite db.Invite) (newInvite db.Invite, err error) {
	now := time.Now()
	if invite.Status == "" {
		invite.Status = db.InvitePending
	}
	invite.Created = now
	invite.Updated = now

	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("invites"))
		id, e := nextID(b)
		if e != nil {
			return e
		}
		invite.ID = id
		return putObject(b, intKey(id), invite)
	})
	if err != nil {
		return
	}

	newInvite = invite
	return
}

// UpdateInviteStatus transitions the invite out of pending inside a
// single write transaction. The read and the conditional write share
// the transaction, so two concurrent responders cannot both match the
// pending state.
func (d *BoltDb) UpdateInviteStatus(inviteID int, status db.InviteStatus) (invite db.Invite, err error) {
	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("invites"))
		if e := getObject(b, intKey(inviteID), &invite); e != nil {
			return e
		}
		if invite.Status != db.InvitePending {
			return db.ErrNotFound
		}
		invite.Status = status
		invite.Updated = time.Now()
		return putObject(b, intKey(inviteID), invite)
	})
	return
}

func (d *BoltDb) filterInvites(match func(db.Invite) bool) (invites []db.Invite, err error) {
	invites = []db.Invite{}
	err = d.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte("invites")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var inv db.Invite
			if e := unmarshalValue(v, &inv); e != nil {
				return e
			}
			if match(inv) {
				invites = append(invites, inv)
			}
		}
		return nil
	})
	if err != nil {
		return
	}

	// newest first
	sort.Slice(invites, func(i, j int) bool {
		return invites[i].Created.After(invites[j].Created)
	})
	return
}

func matchStatus(inv db.Invite, status db.InviteStatus) bool {
	return status == db.InviteStatusAny || inv.Status == status
}

func samePageRef(a *int, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
