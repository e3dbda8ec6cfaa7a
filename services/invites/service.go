package invites

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/notify"
)

// ErrNotProcessable is the uniform failure for respond and cancel.
// A missing invite, a wrong actor and a terminal status all collapse
// into it so the caller cannot probe for existence or ownership.
var ErrNotProcessable = errors.New("invite not found or already processed")

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

func (a Action) IsValid() bool {
	return a == ActionAccept || a == ActionDecline
}

func (a Action) status() db.InviteStatus {
	if a == ActionAccept {
		return db.InviteAccepted
	}
	return db.InviteDeclined
}

// NewInvitePayload is pushed to the receiver when an invite is sent.
type NewInvitePayload struct {
	Invite db.InviteWithRefs `json:"invite"`
}

// ResponsePayload is pushed to the sender when the receiver responds.
type ResponsePayload struct {
	Invite    db.InviteWithRefs `json:"invite"`
	Action    Action            `json:"action"`
	Responder *db.UserSummary   `json:"responder,omitempty"`
}

// CancelledPayload is pushed to the receiver when the sender cancels.
type CancelledPayload struct {
	Invite db.InviteWithRefs `json:"invite"`
}

// Service owns the invite state machine. It is the only writer of an
// invite's status; each transition is persisted before any
// notification is attempted, so a dropped push never loses state.
type Service struct {
	store    db.Store
	notifier notify.Notifier
}

func NewService(store db.Store, notifier notify.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Send creates pending invites from the sender to every receiver.
// The whole batch is rejected when any receiver does not resolve.
// A receiver who already has a pending invite for the same page from
// the same sender is skipped silently; the returned slice contains
// only the invites actually created.
func (s *Service) Send(senderID int, receiverIDs []int, pageID *int) ([]db.InviteWithRefs, error) {
	if len(receiverIDs) == 0 {
		return nil, &db.ValidationError{Message: "receiver ids are required"}
	}

	receivers, err := s.store.GetUsersByIDs(receiverIDs)
	if err != nil {
		return nil, err
	}

	receiverByID := make(map[int]db.User, len(receivers))
	for _, r := range receivers {
		receiverByID[r.ID] = r
	}

	for _, id := range receiverIDs {
		if _, ok := receiverByID[id]; !ok {
			return nil, &db.ValidationError{Message: "some users not found"}
		}
	}

	sender, err := s.store.GetUser(senderID)
	if err != nil {
		return nil, err
	}
	senderSummary := sender.Summary()

	var pageSummary *db.PageSummary
	if pageID != nil {
		if page, pErr := s.store.GetPage(*pageID); pErr == nil {
			ps := page.Summary()
			pageSummary = &ps
		}
	}

	created := []db.InviteWithRefs{}

	for _, receiverID := range receiverIDs {
		// best-effort duplicate check; concurrent identical requests
		// can still race past it
		_, err = s.store.GetPendingInvite(senderID, receiverID, pageID)
		if err == nil {
			continue
		}
		if err != db.ErrNotFound {
			return created, err
		}

		invite, cErr := s.store.CreateInvite(db.Invite{
			SenderID:   senderID,
			ReceiverID: receiverID,
			PageID:     pageID,
			Status:     db.InvitePending,
		})
		if cErr != nil {
			// invites created so far stay durable, no rollback
			return created, cErr
		}

		receiver := receiverByID[receiverID]
		receiverSummary := receiver.Summary()

		enriched := db.InviteWithRefs{
			Invite:   invite,
			Sender:   &senderSummary,
			Receiver: &receiverSummary,
			Page:     pageSummary,
		}
		created = append(created, enriched)

		s.notifier.Publish(receiverID, notify.EventNewInvite, NewInvitePayload{Invite: enriched})
	}

	return created, nil
}

// Respond transitions a pending invite to accepted or declined. Only
// the receiver may respond.
func (s *Service) Respond(inviteID int, actingUserID int, action Action) (db.InviteWithRefs, error) {
	if !action.IsValid() {
		return db.InviteWithRefs{}, &db.ValidationError{Message: "action must be either accept or decline"}
	}

	invite, err := s.store.GetInvite(inviteID)
	if err != nil {
		if err == db.ErrNotFound {
			return db.InviteWithRefs{}, ErrNotProcessable
		}
		return db.InviteWithRefs{}, err
	}

	if invite.ReceiverID != actingUserID || invite.Status != db.InvitePending {
		return db.InviteWithRefs{}, ErrNotProcessable
	}

	updated, err := s.store.UpdateInviteStatus(inviteID, action.status())
	if err != nil {
		if err == db.ErrNotFound {
			// lost the race against another transition
			return db.InviteWithRefs{}, ErrNotProcessable
		}
		return db.InviteWithRefs{}, err
	}

	enriched := s.enrich(updated)

	s.notifier.Publish(invite.SenderID, notify.EventInviteResponse, ResponsePayload{
		Invite:    enriched,
		Action:    action,
		Responder: enriched.Receiver,
	})

	return enriched, nil
}

// Cancel transitions a pending invite to cancelled. Only the sender
// may cancel.
func (s *Service) Cancel(inviteID int, actingUserID int) (db.InviteWithRefs, error) {
	invite, err := s.store.GetInvite(inviteID)
	if err != nil {
		if err == db.ErrNotFound {
			return db.InviteWithRefs{}, ErrNotProcessable
		}
		return db.InviteWithRefs{}, err
	}

	if invite.SenderID != actingUserID || invite.Status != db.InvitePending {
		return db.InviteWithRefs{}, ErrNotProcessable
	}

	updated, err := s.store.UpdateInviteStatus(inviteID, db.InviteCancelled)
	if err != nil {
		if err == db.ErrNotFound {
			return db.InviteWithRefs{}, ErrNotProcessable
		}
		return db.InviteWithRefs{}, err
	}

	enriched := s.enrich(updated)

	s.notifier.Publish(invite.ReceiverID, notify.EventInviteCancelled, CancelledPayload{Invite: enriched})

	return enriched, nil
}

// Received lists invites where the user is the receiver, newest first.
func (s *Service) Received(userID int, status db.InviteStatus) ([]db.InviteWithRefs, error) {
	if status != db.InviteStatusAny && !status.IsValid() {
		return nil, &db.ValidationError{Message: "invalid status filter"}
	}

	invites, err := s.store.GetReceivedInvites(userID, status)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(invites), nil
}

// Sent lists invites where the user is the sender, newest first.
func (s *Service) Sent(userID int, status db.InviteStatus) ([]db.InviteWithRefs, error) {
	if status != db.InviteStatusAny && !status.IsValid() {
		return nil, &db.ValidationError{Message: "invalid status filter"}
	}

	invites, err := s.store.GetSentInvites(userID, status)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(invites), nil
}

// enrich attaches sender, receiver and page summaries. A reference
// that no longer resolves degrades to nil instead of failing the
// whole operation.
func (s *Service) enrich(invite db.Invite) db.InviteWithRefs {
	out := db.InviteWithRefs{Invite: invite}

	if sender, err := s.store.GetUser(invite.SenderID); err == nil {
		summary := sender.Summary()
		out.Sender = &summary
	} else if err != db.ErrNotFound {
		log.WithError(err).WithField("invite", invite.ID).Warn("cannot resolve invite sender")
	}

	if receiver, err := s.store.GetUser(invite.ReceiverID); err == nil {
		summary := receiver.Summary()
		out.Receiver = &summary
	} else if err != db.ErrNotFound {
		log.WithError(err).WithField("invite", invite.ID).Warn("cannot resolve invite receiver")
	}

	if invite.PageID != nil {
		if page, err := s.store.GetPage(*invite.PageID); err == nil {
			summary := page.Summary()
			out.Page = &summary
		} else if err != db.ErrNotFound {
			log.WithError(err).WithField("invite", invite.ID).Warn("cannot resolve invite page")
		}
	}

	return out
}

func (s *Service) enrichAll(invites []db.Invite) []db.InviteWithRefs {
	out := make([]db.InviteWithRefs, 0, len(invites))
	for _, invite := range invites {
		out = append(out, s.enrich(invite))
	}
	return out
}
