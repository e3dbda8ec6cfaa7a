package db

import (
	"time"
)

type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteAccepted  InviteStatus = "accepted"
	InviteDeclined  InviteStatus = "declined"
	InviteCancelled InviteStatus = "cancelled"

	// InviteStatusAny disables status filtering on list queries.
	InviteStatusAny InviteStatus = "all"
)

func (s InviteStatus) IsValid() bool {
	switch s {
	case InvitePending, InviteAccepted, InviteDeclined, InviteCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are permitted out
// of the status. Everything except pending is terminal.
func (s InviteStatus) IsTerminal() bool {
	return s.IsValid() && s != InvitePending
}

// Invite records one user (sender) asking another (receiver) to
// collaborate on a page. Invites are never physically deleted: the
// lifecycle ends in one of the terminal statuses.
type Invite struct {
	ID         int          `db:"id" json:"id"`
	SenderID   int          `db:"sender_id" json:"sender_id"`
	ReceiverID int          `db:"receiver_id" json:"receiver_id"`
	PageID     *int         `db:"page_id" json:"page_id,omitempty"`
	Status     InviteStatus `db:"status" json:"status"`
	Created    time.Time    `db:"created" json:"created"`
	Updated    time.Time    `db:"updated" json:"updated"`
}

// InviteWithRefs is an invite enriched with summaries of the users and
// the page it references. A summary is nil when the referenced record
// no longer resolves.
type InviteWithRefs struct {
	Invite
	Sender   *UserSummary `json:"sender,omitempty"`
	Receiver *UserSummary `json:"receiver,omitempty"`
	Page     *PageSummary `json:"page,omitempty"`
}
