package bolt

import (
	"testing"

	"github.com/pagedeck/pagedeck/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltDb_CreateInvite(t *testing.T) {
	store := CreateTestStore()
	defer store.Close()

	invite, err := store.CreateInvite(db.Invite{SenderID: 1, ReceiverID: 2})
	require.NoError(t, err)

	assert.NotZero(t, invite.ID)
	assert.Equal(t, db.InvitePending, invite.Status)
	assert.False(t, invite.Created.IsZero())

	got, err := store.GetInvite(invite.ID)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, got.ID)
	assert.Equal(t, 2, got.ReceiverID)
}

func TestBoltDb_GetPendingInvite(t *testing.T) {
	store := CreateTestStore()
	defer store.Close()

	pageID := 9
	_, err := store.CreateInvite(db.Invite{SenderID: 1, ReceiverID: 2, PageID: &pageID})
	require.NoError(t, err)

	_, err = store.GetPendingInvite(1, 2, &pageID)
	assert.NoError(t, err)

	// different page reference must not match
	otherPage := 10
	_, err = store.GetPendingInvite(1, 2, &otherPage)
	assert.Equal(t, db.ErrNotFound, err)

	_, err = store.GetPendingInvite(1, 2, nil)
	assert.Equal(t, db.ErrNotFound, err)
}

func TestBoltDb_UpdateInviteStatus(t *testing.T) {
	store := CreateTestStore()
	defer store.Close()

	invite, err := store.CreateInvite(db.Invite{SenderID: 1, ReceiverID: 2})
	require.NoError(t, err)

	updated, err := store.UpdateInviteStatus(invite.ID, db.InviteAccepted)
	require.NoError(t, err)
	assert.Equal(t, db.InviteAccepted, updated.Status)
	assert.True(t, updated.Updated.After(updated.Created) || updated.Updated.Equal(updated.Created))

	// a second transition out of a terminal state must fail uniformly
	_, err = store.UpdateInviteStatus(invite.ID, db.InviteDeclined)
	assert.Equal(t, db.ErrNotFound, err)

	_, err = store.UpdateInviteStatus(12345, db.InviteCancelled)
	assert.Equal(t, db.ErrNotFound, err)
}

func TestBoltDb_ListInvites(t *testing.T) {
	store := CreateTestStore()
	defer store.Close()

	a, err := store.CreateInvite(db.Invite{SenderID: 1, ReceiverID: 2})
	require.NoError(t, err)
	b, err := store.CreateInvite(db.Invite{SenderID: 1, ReceiverID: 2})
	require.NoError(t, err)

	_, err = store.UpdateInviteStatus(a.ID, db.InviteAccepted)
	require.NoError(t, err)

	pending, err := store.GetReceivedInvites(2, db.InvitePending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)

	all, err := store.GetReceivedInvites(2, db.InviteStatusAny)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sent, err := store.GetSentInvites(1, db.InviteStatusAny)
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	none, err := store.GetSentInvites(2, db.InviteStatusAny)
	require.NoError(t, err)
	assert.Empty(t, none)
}
