package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubJoinDeliverLeave(t *testing.T) {
	h := NewHub()
	a := NewClient(1, 4)
	b := NewClient(2, 4)

	h.Join(a, 10)
	h.Join(b, 10)
	h.Join(b, 11)
	assert.Equal(t, 2, h.RoomSize(10))
	assert.Equal(t, 1, h.RoomSize(11))

	assert.Equal(t, 2, h.Deliver(10, []byte("x")))
	assert.Equal(t, "x", string(<-a.Send))
	assert.Equal(t, "x", string(<-b.Send))

	h.Leave(a, 10)
	assert.Equal(t, 1, h.RoomSize(10))
	assert.Equal(t, 0, h.Deliver(12, []byte("nobody")))

	b.Close()
	assert.Zero(t, h.RoomSize(10))
	assert.Zero(t, h.RoomSize(11))
	assert.Equal(t, 0, h.Deliver(10, []byte("late")))
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	slow := NewClient(1, 1)
	fast := NewClient(2, 4)
	h.Join(slow, 5)
	h.Join(fast, 5)

	assert.Equal(t, 2, h.Deliver(5, []byte("1")))
	assert.Equal(t, 1, h.Deliver(5, []byte("2")))
	assert.Len(t, fast.Send, 2)
	assert.Len(t, slow.Send, 1)
}

func TestClientCloseIsIdempotent(t *testing.T) {
	c := NewClient(1, 1)
	c.Close()
	c.Close()
	assert.False(t, c.Enqueue([]byte("x")))
}

func TestHubBroadcastToRoomEncodesEnvelope(t *testing.T) {
	h := NewHub()
	c := NewClient(1, 1)
	h.Join(c, 3)

	require.NoError(t, h.BroadcastToRoom(context.Background(), 3, ErrorEvent("boom")))
	var got map[string]any
	require.NoError(t, json.Unmarshal(<-c.Send, &got))
	assert.Equal(t, "error", got["event"])
	assert.Equal(t, map[string]any{"message": "boom"}, got["data"])
}
