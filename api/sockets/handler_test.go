package sockets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/notify"
)

type fakeAuth struct {
	user db.User
	ok   bool
}

func (a fakeAuth) Authenticate(r *http.Request) (db.User, db.Session, bool) {
	return a.user, db.Session{}, a.ok
}

func dialTestServer(t *testing.T, h *Handler) *websocket.Conn {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	return ws
}

func TestAuthenticatedSocketReceivesPublishedEvents(t *testing.T) {
	registry := notify.NewMemoryRegistry()
	notifier := notify.NewLocalNotifier(registry)
	handler := NewHandler(fakeAuth{user: db.User{ID: 7}, ok: true}, registry)

	ws := dialTestServer(t, handler)

	// the bind happens just after the handshake completes
	require.Eventually(t, func() bool {
		return len(registry.ChannelsFor(7)) == 1
	}, time.Second, 10*time.Millisecond)

	notifier.Publish(7, notify.EventNewInvite, map[string]any{"hello": "world"})

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := ws.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Event   string         `json:"event"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(message, &envelope))
	assert.Equal(t, notify.EventNewInvite, envelope.Event)
	assert.Equal(t, "world", envelope.Payload["hello"])
}

func TestUnauthenticatedSocketStaysUnbound(t *testing.T) {
	registry := notify.NewMemoryRegistry()
	handler := NewHandler(fakeAuth{ok: false}, registry)

	ws := dialTestServer(t, handler)

	// the connection is open but never bound
	assert.Never(t, func() bool {
		return len(registry.ChannelsFor(0)) > 0
	}, 200*time.Millisecond, 20*time.Millisecond)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("ping")))
}

func TestSendDropsWhenQueueFull(t *testing.T) {
	conn := &connection{send: make(chan []byte, 2), userID: 1}

	conn.Send([]byte("a"))
	conn.Send([]byte("b"))
	conn.Send([]byte("c"))

	assert.Len(t, conn.send, 2)
}
