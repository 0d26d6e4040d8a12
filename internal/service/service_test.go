package service

import (
	"context"
	"sync"

	"shelterconnect/internal/ws"
)

type recordedEvent struct {
	requestID uint
	event     ws.Event
}

// recordingBroadcaster stands in for the hub in service tests.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (b *recordingBroadcaster) BroadcastToRoom(_ context.Context, requestID uint, ev ws.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{requestID: requestID, event: ev})
	return b.err
}

func (b *recordingBroadcaster) all() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent(nil), b.events...)
}

type pushCall struct {
	token, title, body string
	data               map[string]string
}

type fakePusher struct {
	mu    sync.Mutex
	calls []pushCall
}

func (p *fakePusher) Push(_ context.Context, token, title, body string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{token: token, title: title, body: body, data: data})
	return nil
}

func (p *fakePusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
