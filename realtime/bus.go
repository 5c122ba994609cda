package realtime

import (
	"context"
	"errors"
	"sync"
)

type Subscriber interface {
	SubscriberID() string
	Send(payload []byte) error
}

// Bus fans frames out to every subscriber of a chat room.
type Bus interface {
	Subscribe(room uint, sub Subscriber)
	Unsubscribe(room uint, sub Subscriber)
	Publish(ctx context.Context, room uint, frame []byte) error
}

// MemoryBus keeps rooms in process. A room exists while it has subscribers.
type MemoryBus struct {
	mu      sync.RWMutex
	rooms   map[uint]map[string]Subscriber
	metrics *Metrics
}

func NewMemoryBus(metrics *Metrics) *MemoryBus {
	return &MemoryBus{
		rooms:   make(map[uint]map[string]Subscriber),
		metrics: metrics,
	}
}

func (b *MemoryBus) Subscribe(room uint, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.rooms[room]
	if subs == nil {
		subs = make(map[string]Subscriber)
		b.rooms[room] = subs
	}
	subs[sub.SubscriberID()] = sub
}

func (b *MemoryBus) Unsubscribe(room uint, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribeLocked(room, sub.SubscriberID())
}

func (b *MemoryBus) Publish(_ context.Context, room uint, frame []byte) error {
	b.Deliver(room, frame)
	return nil
}

// Deliver hands frame to the local subscribers of room and returns how many accepted it.
func (b *MemoryBus) Deliver(room uint, frame []byte) int {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.rooms[room]))
	for _, sub := range b.rooms[room] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	delivered := 0
	var closed []string
	for _, sub := range subs {
		err := sub.Send(frame)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrConnectionClosed), errors.Is(err, ErrSendBufferFull):
			closed = append(closed, sub.SubscriberID())
		}
	}

	if len(closed) > 0 {
		b.mu.Lock()
		for _, id := range closed {
			b.unsubscribeLocked(room, id)
		}
		b.mu.Unlock()
		b.metrics.Pruned.Add(float64(len(closed)))
	}
	b.metrics.FramesSent.Add(float64(delivered))
	return delivered
}

// Subscribers reports the size of a room.
func (b *MemoryBus) Subscribers(room uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[room])
}

func (b *MemoryBus) unsubscribeLocked(room uint, id string) {
	subs, ok := b.rooms[room]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.rooms, room)
	}
}
