package ws

import (
	"context"
	"encoding/json"
	"sync"
)

// Client is a single websocket connection with the authenticated user behind it.
type Client struct {
	UserID uint
	Send   chan []byte

	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint, buffer int) *Client {
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{UserID: userID, Send: make(chan []byte, buffer)}
}

// Enqueue queues data without blocking. It reports false when the queue is full or the
// client is closed; the frame is dropped in both cases.
func (c *Client) Enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close leaves every room and closes Send. Safe to call more than once.
func (c *Client) Close() {
	if c.hub != nil {
		c.hub.LeaveAll(c)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Hub tracks which clients are in which request room. It is created once per process and
// shared by the HTTP and websocket paths.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uint]*room
	byConn map[*Client]map[uint]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[uint]*room),
		byConn: make(map[*Client]map[uint]struct{}),
	}
}

// Join adds c to the room of requestID, creating the room on first use.
func (h *Hub) Join(c *Client, requestID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	r, ok := h.rooms[requestID]
	if !ok {
		r = newRoom(requestID)
		h.rooms[requestID] = r
	}
	r.join(c)
	if h.byConn[c] == nil {
		h.byConn[c] = make(map[uint]struct{})
	}
	h.byConn[c][requestID] = struct{}{}
}

func (h *Hub) Leave(c *Client, requestID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, requestID)
}

// LeaveAll drops every membership of c.
func (h *Hub) LeaveAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.byConn[c] {
		h.leaveLocked(c, id)
	}
	delete(h.byConn, c)
}

func (h *Hub) leaveLocked(c *Client, requestID uint) {
	if r, ok := h.rooms[requestID]; ok {
		r.leave(c)
		if r.size() == 0 {
			delete(h.rooms, requestID)
		}
	}
	if m := h.byConn[c]; m != nil {
		delete(m, requestID)
		if len(m) == 0 {
			delete(h.byConn, c)
		}
	}
}

// RoomSize is the number of sockets currently in the room of requestID.
func (h *Hub) RoomSize(requestID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[requestID]; ok {
		return r.size()
	}
	return 0
}

// Deliver writes an encoded frame to every local member of the room. It returns the number
// of clients that accepted it.
func (h *Hub) Deliver(requestID uint, data []byte) int {
	h.mu.RLock()
	r, ok := h.rooms[requestID]
	var members []*Client
	if ok {
		members = r.snapshot()
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range members {
		if c.Enqueue(data) {
			sent++
		}
	}
	return sent
}

// BroadcastToRoom makes the hub a Broadcaster for single-instance deployments.
func (h *Hub) BroadcastToRoom(_ context.Context, requestID uint, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.Deliver(requestID, data)
	return nil
}
