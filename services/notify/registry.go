package notify

import (
	"sync"
)

// Channel is one live real-time connection bound to a user. Send must
// not block: a connection that cannot keep up drops the event.
type Channel interface {
	Send(message []byte)
}

// ChannelRegistry tracks which channels are currently bound to which
// user. It is injected wherever events are delivered, so tests can
// fake it and a distributed fan-out can wrap it.
type ChannelRegistry interface {
	Bind(userID int, ch Channel)
	Unbind(userID int, ch Channel)
	ChannelsFor(userID int) []Channel
}

// MemoryRegistry is the process-local registry used in a single
// instance deployment.
type MemoryRegistry struct {
	mu       sync.RWMutex
	channels map[int][]Channel
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{channels: make(map[int][]Channel)}
}

func (r *MemoryRegistry) Bind(userID int, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[userID] = append(r.channels[userID], ch)
}

func (r *MemoryRegistry) Unbind(userID int, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	channels := r.channels[userID]
	for i, c := range channels {
		if c == ch {
			channels = append(channels[:i], channels[i+1:]...)
			break
		}
	}
	if len(channels) == 0 {
		delete(r.channels, userID)
	} else {
		r.channels[userID] = channels
	}
}

func (r *MemoryRegistry) ChannelsFor(userID int) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channels := r.channels[userID]
	out := make([]Channel, len(channels))
	copy(out, channels)
	return out
}
