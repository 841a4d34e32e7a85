// Package factory provides dependency injection constructors for infrastructure components.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/fallback"
	"github.com/UniversityPortal/internal/infra/queue"
	"github.com/UniversityPortal/pkg/config"
	"go.uber.org/fx"
)

// NewFallbackRegistry builds the built-in fixtures for the configured locale,
// overridden by FALLBACK_FILE when set.
func NewFallbackRegistry(cfg *config.Config) (*fallback.Registry, error) {
	reg := fallback.NewLocaleRegistry(cfg.Locale)
	if cfg.FallbackFile == "" {
		return reg, nil
	}
	if err := reg.LoadFile(cfg.FallbackFile); err != nil {
		return nil, fmt.Errorf("load fallback file: %w", err)
	}
	slog.Info("Loaded fallback overrides", "file", cfg.FallbackFile, "paths", reg.Paths())
	return reg, nil
}

// NewEventSink publishes degradation events to Kafka when brokers are configured
// and to the log otherwise.
func NewEventSink(cfg *config.Config, lc fx.Lifecycle) domain.EventSink {
	if !cfg.KafkaEnabled() {
		slog.Info("Kafka not configured, degradation events go to the log")
		return queue.LogSink{}
	}

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer
}
