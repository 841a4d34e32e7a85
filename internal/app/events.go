package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/UniversityPortal/internal/domain"
	"github.com/google/uuid"
)

func publish(ctx context.Context, sink domain.EventSink, kind domain.DegradationKind, endpoint, reason string) {
	if sink == nil {
		return
	}
	event := &domain.DegradationEvent{
		ID:       uuid.NewString(),
		Kind:     kind,
		Endpoint: endpoint,
		Reason:   reason,
		At:       time.Now().UTC(),
	}
	if err := sink.Publish(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("Failed to publish degradation event", "kind", kind, "endpoint", endpoint, "error", err)
	}
}
