package sockets

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	// sendQueueSize bounds the per-connection send queue. A client
	// that cannot keep up gets dropped rather than blocking the
	// publisher.
	sendQueueSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Authenticator resolves the request to a user without writing a
// response. The auth controller implements it.
type Authenticator interface {
	Authenticate(r *http.Request) (db.User, db.Session, bool)
}

// connection wraps a websocket and the queue of outbound events. It
// is the Channel bound into the registry for the user.
type connection struct {
	ws     *websocket.Conn
	send   chan []byte
	userID int
}

// Send queues an event for delivery. Delivery is at most once: when
// the queue is full the event is dropped.
func (c *connection) Send(message []byte) {
	select {
	case c.send <- message:
	default:
		log.WithFields(log.Fields{
			"user": c.userID,
		}).Warn("dropping event, socket send queue full")
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and notices disconnects.
func (c *connection) readPump() {
	defer c.ws.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Handler upgrades HTTP requests to websocket connections and binds
// them into the channel registry so that published events reach the
// user's live sockets.
type Handler struct {
	auth     Authenticator
	registry notify.ChannelRegistry
}

func NewHandler(auth Authenticator, registry notify.ChannelRegistry) *Handler {
	return &Handler{auth: auth, registry: registry}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, _, authenticated := h.auth.Authenticate(r)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	conn := &connection{
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		userID: user.ID,
	}

	// an unauthenticated socket stays open but never gets bound, so
	// it receives nothing
	if authenticated {
		h.registry.Bind(user.ID, conn)
		defer h.registry.Unbind(user.ID, conn)
	}

	// the send channel is never closed: a publisher may hold a
	// reference past unbind. The write pump exits on the first failed
	// write after the read pump closes the socket.
	go conn.writePump()
	conn.readPump()
}
