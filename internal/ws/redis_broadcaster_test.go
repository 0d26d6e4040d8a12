package ws

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBroadcasterRelaysAcrossHubs(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientA, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer clientA.Close()
	clientB, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer clientB.Close()

	hubA, hubB := NewHub(), NewHub()
	pubA := NewRedisBroadcaster(clientA, hubA)
	subB := NewRedisBroadcaster(clientB, hubB)
	require.NoError(t, pubA.Subscribe(ctx))
	require.NoError(t, subB.Subscribe(ctx))

	local := NewClient(1, 4)
	remote := NewClient(2, 4)
	other := NewClient(3, 4)
	hubA.Join(local, 42)
	hubB.Join(remote, 42)
	hubB.Join(other, 43)

	require.NoError(t, pubA.BroadcastToRoom(ctx, 42, Event{Event: EventReceiveMessage, Data: map[string]any{"text": "hi"}}))

	for _, c := range []*Client{local, remote} {
		select {
		case data := <-c.Send:
			assert.JSONEq(t, `{"event":"receive_message","data":{"text":"hi"}}`, string(data))
		case <-time.After(2 * time.Second):
			t.Fatalf("client %d got nothing", c.UserID)
		}
	}
	assert.Empty(t, other.Send)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
