package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/ws"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestPublishRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, Channel)
	defer sub.Close()
	_, err := sub.Receive(ctx) // wait for subscription confirmation
	require.NoError(t, err)

	pub := NewPublisher(rdb, zap.NewNop().Sugar())
	msg := Message{
		Type:           domain.NotifContractActivated,
		ContractID:     7,
		ContractNumber: "RW-2025-0007",
		Status:         domain.StatusActive,
		UserIDs:        []uint{101, 201},
	}
	require.NoError(t, pub.Publish(ctx, msg))

	select {
	case m := <-sub.Channel():
		var got Message
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &got))
		assert.Equal(t, msg, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestSubscriberDeliversToHub(t *testing.T) {
	rdb := newTestRedis(t)
	hub := ws.NewHub()

	clientConn := &ws.Client{UserID: 101, Role: domain.RoleClient, Send: make(chan []byte, 4)}
	adminConn := &ws.Client{UserID: 1, Role: domain.RoleAdmin, Send: make(chan []byte, 4)}
	otherConn := &ws.Client{UserID: 555, Role: domain.RoleAffiliate, Send: make(chan []byte, 4)}
	hub.Register(clientConn)
	hub.Register(adminConn)
	hub.Register(otherConn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := NewSubscriber(rdb, hub, zap.NewNop().Sugar())
	go sub.Run(ctx)

	// Give the subscriber time to attach before publishing.
	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(context.Background(), Channel).Result()
		return err == nil && n[Channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	pub := NewPublisher(rdb, zap.NewNop().Sugar())
	require.NoError(t, pub.Publish(context.Background(), Message{
		Type:       domain.NotifSignatureSubmitted,
		ContractID: 3,
		UserIDs:    []uint{101},
	}))

	expect := func(c *ws.Client, name string) Message {
		select {
		case data := <-c.Send:
			var got Message
			require.NoError(t, json.Unmarshal(data, &got))
			return got
		case <-time.After(2 * time.Second):
			t.Fatalf("%s received nothing", name)
			return Message{}
		}
	}

	got := expect(clientConn, "targeted client")
	assert.Equal(t, uint(3), got.ContractID)
	got = expect(adminConn, "admin broadcast")
	assert.Equal(t, domain.NotifSignatureSubmitted, got.Type)

	select {
	case <-otherConn.Send:
		t.Fatal("untargeted non-admin session should receive nothing")
	case <-time.After(100 * time.Millisecond):
	}
}
