package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"college-chat/enum"

	"github.com/segmentio/kafka-go"
)

// MessageEvent is what downstream consumers receive for every accepted mutation.
type MessageEvent struct {
	Type      enum.MessageType `json:"type"`
	ChatID    uint             `json:"chat_id"`
	MessageID uint             `json:"message_id"`
	UserID    uint             `json:"user_id,omitempty"`
	At        time.Time        `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt MessageEvent) error
	Close() error
}

type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher takes a comma separated broker list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokerList(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt MessageEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	// keyed by chat so a chat's events stay ordered within one partition
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(evt.ChatID), 10)),
		Value: value,
		Time:  evt.At,
	})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, MessageEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }

func brokerList(brokers string) []string {
	var out []string
	for _, broker := range strings.Split(brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			out = append(out, broker)
		}
	}
	return out
}
