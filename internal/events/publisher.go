package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderSubmitted is the event emitted after a checkout is handed off
// to a delivery channel.
type OrderSubmitted struct {
	OrderID     string    `json:"order_id"`
	Channel     string    `json:"channel"`
	Total       float64   `json:"total"`
	LineCount   int       `json:"line_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Publisher emits order events. Publishing is best effort at the call
// site; failures never block a checkout.
type Publisher interface {
	PublishOrderSubmitted(ctx context.Context, event OrderSubmitted) error
	Close() error
}

// KafkaPublisher writes order events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(logger *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "storefront-orders",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) PublishOrderSubmitted(ctx context.Context, event OrderSubmitted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_submitted")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Info("order event published",
		zap.String("order_id", event.OrderID),
		zap.String("channel", event.Channel))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderSubmitted(context.Context, OrderSubmitted) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }
