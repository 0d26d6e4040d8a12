package ws

import (
	"context"
	"encoding/json"
)

const (
	EventJoinRequest    = "join_request"
	EventLeaveRequest   = "leave_request"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventJoined         = "joined"
	EventError          = "error"
)

// Event is the frame written to clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound is a frame read from a client; Data is decoded once Event is known.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type RoomPayload struct {
	RequestID uint `json:"request_id"`
}

type SendPayload struct {
	RequestID uint   `json:"request_id"`
	SenderID  uint   `json:"sender_id"`
	Text      string `json:"text"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func ErrorEvent(msg string) Event {
	return Event{Event: EventError, Data: ErrorPayload{Message: msg}}
}

// Broadcaster pushes an event to every socket in a request room, across all instances
// sharing the same transport. Delivery is fire-and-forget.
type Broadcaster interface {
	BroadcastToRoom(ctx context.Context, requestID uint, ev Event) error
}
