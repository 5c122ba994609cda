package realtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const roomChannelPrefix = "chat:room:"

// RedisBus relays published frames through Redis pub/sub so every instance
// delivers them to its own local subscribers.
type RedisBus struct {
	local  *MemoryBus
	client *redis.Client
	log    zerolog.Logger
	pubsub *redis.PubSub
}

func NewRedisBus(client *redis.Client, local *MemoryBus, log zerolog.Logger) *RedisBus {
	return &RedisBus{local: local, client: client, log: log}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// Start subscribes to every room channel and relays until ctx ends or Close is called.
// It returns once the subscription is confirmed by the server.
func (b *RedisBus) Start(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, roomChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("redis: psubscribe: %w", err)
	}
	b.pubsub = pubsub

	go b.relay(ctx, pubsub.Channel())
	return nil
}

func (b *RedisBus) Close() error {
	if b.pubsub == nil {
		return nil
	}
	return b.pubsub.Close()
}

func (b *RedisBus) Subscribe(room uint, sub Subscriber) {
	b.local.Subscribe(room, sub)
}

func (b *RedisBus) Unsubscribe(room uint, sub Subscriber) {
	b.local.Unsubscribe(room, sub)
}

func (b *RedisBus) Publish(ctx context.Context, room uint, frame []byte) error {
	if err := b.client.Publish(ctx, roomChannel(room), frame).Err(); err != nil {
		return fmt.Errorf("redis: publish room %d: %w", room, err)
	}
	return nil
}

func (b *RedisBus) relay(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			room, err := roomFromChannel(msg.Channel)
			if err != nil {
				b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping frame from unknown channel")
				continue
			}
			b.local.Deliver(room, []byte(msg.Payload))
		}
	}
}

func roomChannel(room uint) string {
	return roomChannelPrefix + strconv.FormatUint(uint64(room), 10)
}

func roomFromChannel(channel string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(channel, roomChannelPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed room channel %q", channel)
	}
	return uint(id), nil
}
