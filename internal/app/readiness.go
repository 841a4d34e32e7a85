package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/segmentio/kafka-go"
)

// UpstreamProbe reports whether the content API and the event broker are reachable.
// It never gates startup: the portal keeps serving fallback content while upstream is down.
type UpstreamProbe struct {
	baseURL string
	client  *http.Client
	brokers []string
	topic   string
}

func NewUpstreamProbe(baseURL string, brokers []string, topic string) *UpstreamProbe {
	return &UpstreamProbe{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Second},
		brokers: brokers,
		topic:   topic,
	}
}

// Status maps each dependency to "ok" or the reason it is unavailable.
type Status map[string]string

func (s Status) Healthy() bool {
	for _, v := range s {
		if v != "ok" {
			return false
		}
	}
	return true
}

func (p *UpstreamProbe) Check(ctx context.Context) Status {
	status := Status{"content_api": "ok"}
	if err := p.checkAPI(ctx); err != nil {
		slog.Warn("Content API not reachable", "error", err)
		status["content_api"] = err.Error()
	}
	if len(p.brokers) > 0 && p.brokers[0] != "" {
		status["kafka"] = "ok"
		if err := p.checkKafka(ctx); err != nil {
			slog.Warn("Kafka not ready yet", "error", err)
			status["kafka"] = err.Error()
		}
	}
	return status
}

func (p *UpstreamProbe) checkAPI(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("content API returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *UpstreamProbe) checkKafka(ctx context.Context) error {
	dialer := &kafka.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	partitions, err := conn.ReadPartitions(p.topic)
	if err != nil {
		return fmt.Errorf("failed to read partitions for topic %s: %w", p.topic, err)
	}
	if len(partitions) == 0 {
		return fmt.Errorf("topic %s has no partitions", p.topic)
	}
	return nil
}
