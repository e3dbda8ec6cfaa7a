package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagedeck/pagedeck/api/helpers"
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/db/bolt"
	"github.com/pagedeck/pagedeck/services/invites"
	"github.com/pagedeck/pagedeck/services/notify"
)

type invitesFixture struct {
	store      db.Store
	controller *InvitesController
	sender     db.User
	receiver   db.User
}

func newInvitesFixture(t *testing.T) *invitesFixture {
	store := bolt.CreateTestStore()

	sender, err := store.CreateUser(db.User{
		Username:  "ada",
		FirstName: "Ada",
		Email:     "ada@example.com",
	})
	require.NoError(t, err)

	receiver, err := store.CreateUser(db.User{
		Username:  "grace",
		FirstName: "Grace",
		Email:     "grace@example.com",
	})
	require.NoError(t, err)

	service := invites.NewService(store, notify.NewLocalNotifier(notify.NewMemoryRegistry()))

	return &invitesFixture{
		store:      store,
		controller: NewInvitesController(service),
		sender:     sender,
		receiver:   receiver,
	}
}

func (f *invitesFixture) request(t *testing.T, user db.User, method, target string, body any, vars map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, target, &buf)
	r = helpers.SetUserContext(r, user, db.Session{})
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestSendInvites(t *testing.T) {
	f := newInvitesFixture(t)

	w := httptest.NewRecorder()
	r := f.request(t, f.sender, "POST", "/invite/sendInvites", map[string]any{
		"receiverIds": []int{f.receiver.ID},
	}, nil)

	f.controller.SendInvites(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "1 invites sent successfully", body["message"])
	assert.Len(t, body["invites"], 1)
}

func TestSendInvitesEmptyReceivers(t *testing.T) {
	f := newInvitesFixture(t)

	w := httptest.NewRecorder()
	r := f.request(t, f.sender, "POST", "/invite/sendInvites", map[string]any{
		"receiverIds": []int{},
	}, nil)

	f.controller.SendInvites(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendInvitesUnknownReceiver(t *testing.T) {
	f := newInvitesFixture(t)

	w := httptest.NewRecorder()
	r := f.request(t, f.sender, "POST", "/invite/sendInvites", map[string]any{
		"receiverIds": []int{f.receiver.ID, 9999},
	}, nil)

	f.controller.SendInvites(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Some users not found", body["message"])
}

func TestGetReceivedInvitesDefaultsToPending(t *testing.T) {
	f := newInvitesFixture(t)

	wSend := httptest.NewRecorder()
	f.controller.SendInvites(wSend, f.request(t, f.sender, "POST", "/invite/sendInvites", map[string]any{
		"receiverIds": []int{f.receiver.ID},
	}, nil))
	require.Equal(t, http.StatusCreated, wSend.Code)

	w := httptest.NewRecorder()
	f.controller.GetReceivedInvites(w, f.request(t, f.receiver, "GET", "/invite/getReceivedInvites", nil, nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["invites"], 1)
}

func TestGetReceivedInvitesStatusFilter(t *testing.T) {
	f := newInvitesFixture(t)

	wSend := httptest.NewRecorder()
	f.controller.SendInvites(wSend, f.request(t, f.sender, "POST", "/invite/sendInvites", map[string]any{
		"receiverIds": []int{f.receiver.ID},
	}, nil))
	require.Equal(t, http.StatusCreated, wSend.Code)

	w := httptest.NewRecorder()
	f.controller.GetReceivedInvites(w, f.request(t, f.receiver, "GET", "/invite/getReceivedInvites?status=accepted", nil, nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["invites"], 0)
}

func TestRespondToInviteAccept(t *testing.T) {
	f := newInvitesFixture(t)

	invite, err := f.store.CreateInvite(db.Invite{
		SenderID:   f.sender.ID,
		ReceiverID: f.receiver.ID,
		Status:     db.InvitePending,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := f.request(t, f.receiver, "PATCH", "/invite/respondToInvite/1",
		map[string]any{"action": "accept"},
		map[string]string{"invite_id": strconv.Itoa(invite.ID)})

	f.controller.RespondToInvite(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invite accepted successfully", body["message"])

	data := body["data"].(map[string]any)
	inviteBody := data["invite"].(map[string]any)
	assert.Equal(t, "accepted", inviteBody["status"])
}

func TestRespondToInviteInvalidAction(t *testing.T) {
	f := newInvitesFixture(t)

	w := httptest.NewRecorder()
	r := f.request(t, f.receiver, "PATCH", "/invite/respondToInvite/1",
		map[string]any{"action": "maybe"},
		map[string]string{"invite_id": "1"})

	f.controller.RespondToInvite(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondToInviteNotFound(t *testing.T) {
	f := newInvitesFixture(t)

	w := httptest.NewRecorder()
	r := f.request(t, f.receiver, "PATCH", "/invite/respondToInvite/42",
		map[string]any{"action": "accept"},
		map[string]string{"invite_id": "42"})

	f.controller.RespondToInvite(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invite not found or already processed", body["message"])
}

func TestRespondToInviteWrongUser(t *testing.T) {
	f := newInvitesFixture(t)

	invite, err := f.store.CreateInvite(db.Invite{
		SenderID:   f.sender.ID,
		ReceiverID: f.receiver.ID,
		Status:     db.InvitePending,
	})
	require.NoError(t, err)

	// the sender cannot answer their own invite
	w := httptest.NewRecorder()
	r := f.request(t, f.sender, "PATCH", "/invite/respondToInvite/1",
		map[string]any{"action": "accept"},
		map[string]string{"invite_id": strconv.Itoa(invite.ID)})

	f.controller.RespondToInvite(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelInvite(t *testing.T) {
	f := newInvitesFixture(t)

	invite, err := f.store.CreateInvite(db.Invite{
		SenderID:   f.sender.ID,
		ReceiverID: f.receiver.ID,
		Status:     db.InvitePending,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := f.request(t, f.sender, "PATCH", "/invite/cancelInvite/1", nil,
		map[string]string{"invite_id": strconv.Itoa(invite.ID)})

	f.controller.CancelInvite(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invite cancelled successfully", body["message"])
}

func TestCancelInviteByReceiver(t *testing.T) {
	f := newInvitesFixture(t)

	invite, err := f.store.CreateInvite(db.Invite{
		SenderID:   f.sender.ID,
		ReceiverID: f.receiver.ID,
		Status:     db.InvitePending,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := f.request(t, f.receiver, "PATCH", "/invite/cancelInvite/1", nil,
		map[string]string{"invite_id": strconv.Itoa(invite.ID)})

	f.controller.CancelInvite(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invite not found or cannot be cancelled", body["message"])
}
