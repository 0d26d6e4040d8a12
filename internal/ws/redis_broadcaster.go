package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"shelterconnect/internal/logger"

	"github.com/redis/go-redis/v9"
)

const roomChannelPrefix = "shelter:room:"

// RedisBroadcaster relays room events through Redis pub/sub so every API instance delivers
// them to its own sockets.
type RedisBroadcaster struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisBroadcaster(client *redis.Client, hub *Hub) *RedisBroadcaster {
	return &RedisBroadcaster{client: client, hub: hub}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func roomChannel(requestID uint) string {
	return roomChannelPrefix + strconv.FormatUint(uint64(requestID), 10)
}

func (b *RedisBroadcaster) BroadcastToRoom(ctx context.Context, requestID uint, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, roomChannel(requestID), data).Err()
}

// Subscribe starts relaying published events into the local hub. The subscription is active
// when it returns; the relay stops when ctx is cancelled.
func (b *RedisBroadcaster) Subscribe(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, roomChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("subscribe room channels: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				id, err := strconv.ParseUint(strings.TrimPrefix(msg.Channel, roomChannelPrefix), 10, 64)
				if err != nil {
					logger.Warn("redis relay: bad channel", "channel", msg.Channel)
					continue
				}
				b.hub.Deliver(uint(id), []byte(msg.Payload))
			}
		}
	}()
	return nil
}
