package invites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/db/bolt"
)

type publishedEvent struct {
	UserID  int
	Event   string
	Payload any
}

type fakeNotifier struct {
	events []publishedEvent
}

func (n *fakeNotifier) Publish(userID int, event string, payload any) {
	n.events = append(n.events, publishedEvent{UserID: userID, Event: event, Payload: payload})
}

func (n *fakeNotifier) eventsFor(userID int) (out []publishedEvent) {
	for _, e := range n.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return
}

type fixture struct {
	store    db.Store
	notifier *fakeNotifier
	service  *Service

	sender   db.User
	bob      db.User
	carol    db.User
	page     db.Page
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := bolt.CreateTestStore()
	t.Cleanup(func() { _ = store.Close() })

	notifier := &fakeNotifier{}

	f := &fixture{
		store:    store,
		notifier: notifier,
		service:  NewService(store, notifier),
	}

	var err error
	f.sender, err = store.CreateUser(db.User{Username: "sender", Email: "sender@example.com"})
	require.NoError(t, err)
	f.bob, err = store.CreateUser(db.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	f.carol, err = store.CreateUser(db.User{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)

	f.page, err = store.CreatePage(db.Page{OwnerID: f.sender.ID, Name: "roadmap", Type: db.PageTypeKanban})
	require.NoError(t, err)

	return f
}

func TestService_Send(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Send(f.sender.ID, []int{f.bob.ID, f.carol.ID}, &f.page.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, invite := range created {
		assert.Equal(t, db.InvitePending, invite.Status)
		require.NotNil(t, invite.Sender)
		assert.Equal(t, "sender", invite.Sender.Username)
		require.NotNil(t, invite.Page)
		assert.Equal(t, "roadmap", invite.Page.Name)
	}

	// both receivers durably have one pending invite
	for _, u := range []db.User{f.bob, f.carol} {
		pending, err := f.store.GetReceivedInvites(u.ID, db.InvitePending)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	}

	// each receiver got exactly one newInvite push
	for _, u := range []db.User{f.bob, f.carol} {
		events := f.notifier.eventsFor(u.ID)
		require.Len(t, events, 1)
		assert.Equal(t, "newInvite", events[0].Event)
	}
}

func TestService_SendSkipsDuplicatePending(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, &f.page.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// same (sender, receiver, page) triple is skipped, not an error
	second, err := f.service.Send(f.sender.ID, []int{f.bob.ID, f.carol.ID}, &f.page.ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, f.carol.ID, second[0].ReceiverID)

	pending, err := f.store.GetReceivedInvites(f.bob.ID, db.InvitePending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// a different page is a different triple
	otherPage, err := f.store.CreatePage(db.Page{OwnerID: f.sender.ID, Name: "notes", Type: db.PageTypeNotes})
	require.NoError(t, err)

	third, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, &otherPage.ID)
	require.NoError(t, err)
	assert.Len(t, third, 1)
}

func TestService_SendRejectsUnknownReceiver(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Send(f.sender.ID, []int{f.bob.ID, 9999}, nil)

	var validationErr *db.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// whole batch rejected: nothing was created for bob either
	pending, err := f.store.GetReceivedInvites(f.bob.ID, db.InviteStatusAny)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, f.notifier.events)
}

func TestService_SendEmptyReceivers(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Send(f.sender.ID, nil, nil)

	var validationErr *db.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestService_RespondAccept(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, &f.page.ID)
	require.NoError(t, err)
	inviteID := created[0].ID

	invite, err := f.service.Respond(inviteID, f.bob.ID, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, db.InviteAccepted, invite.Status)

	// sender got exactly one inviteResponse with the action taken
	events := f.notifier.eventsFor(f.sender.ID)
	require.Len(t, events, 1)
	assert.Equal(t, "inviteResponse", events[0].Event)
	payload := events[0].Payload.(ResponsePayload)
	assert.Equal(t, ActionAccept, payload.Action)
	require.NotNil(t, payload.Responder)
	assert.Equal(t, "bob", payload.Responder.Username)

	// accepting twice fails uniformly
	_, err = f.service.Respond(inviteID, f.bob.ID, ActionAccept)
	assert.Equal(t, ErrNotProcessable, err)
}

func TestService_RespondWrongActor(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, nil)
	require.NoError(t, err)
	inviteID := created[0].ID

	// the sender must not be able to respond to their own invite
	_, err = f.service.Respond(inviteID, f.sender.ID, ActionAccept)
	assert.Equal(t, ErrNotProcessable, err)

	// neither may an unrelated user
	_, err = f.service.Respond(inviteID, f.carol.ID, ActionDecline)
	assert.Equal(t, ErrNotProcessable, err)

	// missing invite yields the same indistinguishable failure
	_, err = f.service.Respond(4242, f.bob.ID, ActionAccept)
	assert.Equal(t, ErrNotProcessable, err)

	// invite must still be pending
	got, err := f.store.GetInvite(inviteID)
	require.NoError(t, err)
	assert.Equal(t, db.InvitePending, got.Status)
}

func TestService_RespondInvalidAction(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Respond(1, f.bob.ID, Action("maybe"))

	var validationErr *db.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestService_Cancel(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Send(f.sender.ID, []int{f.carol.ID}, nil)
	require.NoError(t, err)
	inviteID := created[0].ID

	// the receiver must not be able to cancel
	_, err = f.service.Cancel(inviteID, f.carol.ID)
	assert.Equal(t, ErrNotProcessable, err)

	invite, err := f.service.Cancel(inviteID, f.sender.ID)
	require.NoError(t, err)
	assert.Equal(t, db.InviteCancelled, invite.Status)

	// receiver got newInvite (from Send) then inviteCancelled
	events := f.notifier.eventsFor(f.carol.ID)
	require.Len(t, events, 2)
	assert.Equal(t, "inviteCancelled", events[1].Event)

	// cancelling twice fails uniformly
	_, err = f.service.Cancel(inviteID, f.sender.ID)
	assert.Equal(t, ErrNotProcessable, err)
}

func TestService_NoTransitionsOutOfTerminalStates(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, nil)
	require.NoError(t, err)
	inviteID := created[0].ID

	_, err = f.service.Respond(inviteID, f.bob.ID, ActionDecline)
	require.NoError(t, err)

	// declined -> accepted is not a legal transition
	_, err = f.service.Respond(inviteID, f.bob.ID, ActionAccept)
	assert.Equal(t, ErrNotProcessable, err)

	// declined -> cancelled neither
	_, err = f.service.Cancel(inviteID, f.sender.ID)
	assert.Equal(t, ErrNotProcessable, err)
}

func TestService_ListFilters(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, &f.page.ID)
	require.NoError(t, err)
	_, err = f.service.Send(f.sender.ID, []int{f.bob.ID}, nil)
	require.NoError(t, err)

	_, err = f.service.Respond(first[0].ID, f.bob.ID, ActionAccept)
	require.NoError(t, err)

	pending, err := f.service.Received(f.bob.ID, db.InvitePending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].PageID)

	all, err := f.service.Received(f.bob.ID, db.InviteStatusAny)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sent, err := f.service.Sent(f.sender.ID, db.InviteAccepted)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, first[0].ID, sent[0].ID)

	_, err = f.service.Received(f.bob.ID, db.InviteStatus("bogus"))
	var validationErr *db.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestService_EnrichDegradesToNull(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Send(f.sender.ID, []int{f.bob.ID}, &f.page.ID)
	require.NoError(t, err)

	// the page and the sender disappear underneath the invite
	require.NoError(t, f.store.DeletePage(f.page.ID))
	require.NoError(t, f.store.DeleteUser(f.sender.ID))

	invites, err := f.service.Received(f.bob.ID, db.InvitePending)
	require.NoError(t, err)
	require.Len(t, invites, 1)

	assert.Equal(t, created[0].ID, invites[0].ID)
	assert.Nil(t, invites[0].Sender)
	assert.Nil(t, invites[0].Page)
	require.NotNil(t, invites[0].Receiver)
	assert.Equal(t, "bob", invites[0].Receiver.Username)
}
