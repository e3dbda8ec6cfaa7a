package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	messages [][]byte
}

func (c *fakeChannel) Send(message []byte) {
	c.messages = append(c.messages, message)
}

func TestMemoryRegistry_BindUnbind(t *testing.T) {
	r := NewMemoryRegistry()
	ch1 := &fakeChannel{}
	ch2 := &fakeChannel{}

	r.Bind(1, ch1)
	r.Bind(1, ch2)
	assert.Len(t, r.ChannelsFor(1), 2)
	assert.Empty(t, r.ChannelsFor(2))

	r.Unbind(1, ch1)
	channels := r.ChannelsFor(1)
	require.Len(t, channels, 1)
	assert.Same(t, ch2, channels[0].(*fakeChannel))

	r.Unbind(1, ch2)
	assert.Empty(t, r.ChannelsFor(1))
}

func TestLocalNotifier_Publish(t *testing.T) {
	r := NewMemoryRegistry()
	ch := &fakeChannel{}
	r.Bind(7, ch)

	n := NewLocalNotifier(r)
	n.Publish(7, EventNewInvite, map[string]int{"invite_id": 42})

	require.Len(t, ch.messages, 1)

	var env struct {
		Event   string         `json:"event"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(ch.messages[0], &env))
	assert.Equal(t, EventNewInvite, env.Event)
	assert.Equal(t, 42, env.Payload["invite_id"])
}

func TestLocalNotifier_PublishNoChannels(t *testing.T) {
	n := NewLocalNotifier(NewMemoryRegistry())

	// must not panic and must have no side effect
	n.Publish(99, EventInviteCancelled, nil)
}

func TestLocalNotifier_PublishOnlyToTargetUser(t *testing.T) {
	r := NewMemoryRegistry()
	target := &fakeChannel{}
	other := &fakeChannel{}
	r.Bind(1, target)
	r.Bind(2, other)

	n := NewLocalNotifier(r)
	n.Publish(1, EventInviteResponse, "ok")

	assert.Len(t, target.messages, 1)
	assert.Empty(t, other.messages)
}
