package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/pagedeck/pagedeck/util"
)

const fanoutChannel = "pagedeck:events"

type fanoutMessage struct {
	UserID  int             `json:"user_id"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RedisFanout spreads publishes across instances through redis
// pub/sub. Every instance subscribes and re-delivers to its own local
// channels, so the user's live connection may live anywhere.
type RedisFanout struct {
	client *redis.Client
	local  *LocalNotifier

	cancelListen context.CancelFunc
}

func NewRedisFanout(registry ChannelRegistry) *RedisFanout {
	var addr string
	var dbNum int
	var user, pass string

	if util.Config.Redis != nil {
		addr = util.Config.Redis.Addr
		dbNum = util.Config.Redis.DB
		user = util.Config.Redis.Username
		pass = util.Config.Redis.Password
	}

	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       dbNum,
		Username: user,
		Password: pass,
	})

	return &RedisFanout{
		client: client,
		local:  NewLocalNotifier(registry),
	}
}

// Start subscribes to the fan-out channel and delivers incoming
// messages to local channels until Stop is called.
func (n *RedisFanout) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancelListen = cancel

	pubsub := n.client.Subscribe(ctx, fanoutChannel)

	go func() {
		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WithError(err).Warn("redis fan-out receive failed")
				continue
			}

			var m fanoutMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.WithError(err).Warn("malformed fan-out message")
				continue
			}

			n.local.Publish(m.UserID, m.Event, m.Payload)
		}
	}()
}

func (n *RedisFanout) Stop() {
	if n.cancelListen != nil {
		n.cancelListen()
	}
	_ = n.client.Close()
}

func (n *RedisFanout) Publish(userID int, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("event", event).Error("cannot marshal event payload")
		return
	}

	body, err := json.Marshal(fanoutMessage{UserID: userID, Event: event, Payload: raw})
	if err != nil {
		log.WithError(err).Error("cannot marshal fan-out message")
		return
	}

	// fire and forget: a failed publish never fails the request
	if err := n.client.Publish(context.Background(), fanoutChannel, body).Err(); err != nil {
		log.WithError(err).Warn("redis fan-out publish failed")
	}
}
