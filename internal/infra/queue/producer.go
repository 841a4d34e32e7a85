package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

// KafkaProducer publishes degradation events. Writes are asynchronous so a slow
// broker never holds up a page render.
type KafkaProducer struct {
	writer *kafka.Writer
}

var _ domain.EventSink = (*KafkaProducer)(nil)

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 100 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Warn("Failed to deliver degradation events", "count", len(messages), "error", err)
			}
		},
	}
	slog.Info("Kafka Producer initialized", "brokers", brokers, "topic", topic)
	return &KafkaProducer{writer: w}
}

func (p *KafkaProducer) Publish(ctx context.Context, event *domain.DegradationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal degradation event: %w", err)
	}

	// Keyed by endpoint so events for one panel stay ordered on a partition.
	msg := kafka.Message{
		Key:   []byte(event.Endpoint),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write degradation event: %w", err)
	}

	metrics.DegradationEventsPublished.WithLabelValues(string(event.Kind)).Inc()
	slog.Debug("Published degradation event", "id", event.ID, "kind", event.Kind, "endpoint", event.Endpoint)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// LogSink records degradation events in the structured log when no broker is configured.
type LogSink struct{}

var _ domain.EventSink = LogSink{}

func (LogSink) Publish(_ context.Context, event *domain.DegradationEvent) error {
	slog.Info("Content degraded", "id", event.ID, "kind", event.Kind, "endpoint", event.Endpoint, "reason", event.Reason)
	metrics.DegradationEventsPublished.WithLabelValues(string(event.Kind)).Inc()
	return nil
}

func (LogSink) Close() error { return nil }
