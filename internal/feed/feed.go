package feed

import (
	"context"
	"encoding/json"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/ws"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis pub/sub channel carrying contract change events.
const Channel = "contract-events"

// Message is the change-feed payload pushed to subscribed browser sessions.
// Best effort, no ordering or delivery guarantee.
type Message struct {
	Type           string `json:"type"`
	ContractID     uint   `json:"contract_id"`
	ContractNumber string `json:"contract_number,omitempty"`
	Status         string `json:"status,omitempty"`
	UserIDs        []uint `json:"user_ids,omitempty"`
}

// Publisher writes change events into Redis so any backend instance can fan
// them out to its connected sessions.
type Publisher struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

func NewPublisher(rdb *redis.Client, log *zap.SugaredLogger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel, data).Err()
}

// Subscriber consumes the channel and delivers events to the local WebSocket
// hub: targeted at the listed users, plus all connected admin sessions.
type Subscriber struct {
	rdb *redis.Client
	hub *ws.Hub
	log *zap.SugaredLogger
}

func NewSubscriber(rdb *redis.Client, hub *ws.Hub, log *zap.SugaredLogger) *Subscriber {
	return &Subscriber{rdb: rdb, hub: hub, log: log}
}

// Run blocks until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, Channel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				s.log.Warnw("feed: bad payload", "err", err)
				continue
			}
			for _, uid := range msg.UserIDs {
				s.hub.SendRaw(uid, []byte(m.Payload))
			}
			s.hub.BroadcastRole(domain.RoleAdmin, []byte(m.Payload))
		}
	}
}
