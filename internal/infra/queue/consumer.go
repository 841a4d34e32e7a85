package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/UniversityPortal/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaConsumer reads degradation events for monitoring tools.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, topic string, groupID string) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	slog.Info("Kafka Consumer initialized", "brokers", brokers, "topic", topic, "group", groupID)
	return &KafkaConsumer{reader: r}
}

type EventHandler func(ctx context.Context, event *domain.DegradationEvent) error

// Start reads events until ctx is cancelled or the reader fails. Malformed
// messages and handler errors are logged and skipped.
func (c *KafkaConsumer) Start(ctx context.Context, handler EventHandler) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Error("Error reading kafka message", "error", err)
			return err
		}

		event, err := Decode(m.Value)
		if err != nil {
			slog.Error("Error unmarshaling degradation event", "partition", m.Partition, "offset", m.Offset, "error", err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			slog.Error("Error handling degradation event", "id", event.ID, "error", err)
		}
	}
}

// Decode parses a degradation event payload.
func Decode(payload []byte) (*domain.DegradationEvent, error) {
	var event domain.DegradationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if event.Kind == "" {
		return nil, errors.New("degradation event without kind")
	}
	return &event, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
