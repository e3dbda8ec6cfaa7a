package notify

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// Event names pushed over the real-time channel.
const (
	EventNewInvite       = "newInvite"
	EventInviteResponse  = "inviteResponse"
	EventInviteCancelled = "inviteCancelled"
)

// Envelope is the wire shape of a pushed event.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Notifier delivers events to a user's live channels. Delivery is
// best-effort and at-most-once: a user with no bound channel simply
// misses the event and learns of the new state by polling.
type Notifier interface {
	Publish(userID int, event string, payload any)
}

// LocalNotifier delivers to channels of this process only.
type LocalNotifier struct {
	registry ChannelRegistry
}

func NewLocalNotifier(registry ChannelRegistry) *LocalNotifier {
	return &LocalNotifier{registry: registry}
}

func (n *LocalNotifier) Publish(userID int, event string, payload any) {
	channels := n.registry.ChannelsFor(userID)
	if len(channels) == 0 {
		return
	}

	message, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		log.WithError(err).WithField("event", event).Error("cannot marshal event payload")
		return
	}

	for _, ch := range channels {
		ch.Send(message)
	}
}
