package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads the envelopes written by KafkaEventBus back into
// typed events.
type KafkaConsumer struct {
	reader messageReader
	logger *slog.Logger
}

// NewKafkaConsumer joins groupID on topic, starting from the oldest
// uncommitted message.
func NewKafkaConsumer(brokers []string, topic, groupID string, logger *slog.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			Topic:       topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     500 * time.Millisecond,
		}),
		logger: logger.With("consumer", "kafka", "topic", topic, "group", groupID),
	}
}

// Consume hands every event to handler until ctx is done. A message is
// committed once handler accepts it. Undecodable messages are logged and
// committed so they do not block the group.
func (c *KafkaConsumer) Consume(ctx context.Context, handler eventbus.HandlerFunc) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		event, err := decodeEnvelope(msg.Value)
		switch {
		case errors.Is(err, ErrUnknownEventType):
			c.logger.Warn("Skipping unknown event", "key", string(msg.Key), "offset", msg.Offset)
		case err != nil:
			c.logger.Error("Skipping malformed event", "offset", msg.Offset, "error", err)
		default:
			if err := handler(ctx, event); err != nil {
				return fmt.Errorf("handle %s: %w", event.Type(), err)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
