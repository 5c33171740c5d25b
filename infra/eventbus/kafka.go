package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the bus uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventBus publishes every event as a JSON envelope to one topic,
// keyed by event type.
type KafkaEventBus struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWithKafka creates a Kafka-backed event bus.
func NewWithKafka(brokers []string, topic string, logger *slog.Logger) *KafkaEventBus {
	return &KafkaEventBus{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		logger: logger.With("bus", "kafka", "topic", topic),
	}
}

func (b *KafkaEventBus) Emit(ctx context.Context, event eventbus.Event) error {
	data, err := encodeEnvelope(event, time.Now())
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type(), err)
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type()),
		Value: data,
	}); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type(), err)
	}
	b.logger.Debug("Event published", "type", event.Type())
	return nil
}

// Close flushes pending messages and releases the writer.
func (b *KafkaEventBus) Close() error {
	return b.writer.Close()
}
