package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/UniversityPortal/internal/app"
	"github.com/UniversityPortal/internal/infra/queue"
	transport "github.com/UniversityPortal/internal/transport/http"
	"github.com/UniversityPortal/pkg/config"
	"go.uber.org/fx"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	fx.New(
		fx.Provide(
			config.Load,
			NewConsumer,
			app.NewDegradationMonitor,
			NewServer,
		),
		fx.Invoke(
			RegisterHooks,
			StartServer,
		),
	).Run()
}

func NewConsumer(cfg *config.Config, lc fx.Lifecycle) (*queue.KafkaConsumer, error) {
	if !cfg.KafkaEnabled() {
		return nil, errors.New("kafka brokers not configured")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("kafka topic not configured")
	}

	consumer := queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return consumer.Close()
		},
	})
	return consumer, nil
}

func NewServer(cfg *config.Config, m *app.DegradationMonitor) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           transport.NewMonitorRouter(m),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func RegisterHooks(lc fx.Lifecycle, consumer *queue.KafkaConsumer, monitor *app.DegradationMonitor, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := consumer.Start(ctx, monitor.Handle); err != nil {
					slog.Error("Degradation consumer stopped", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting monitor server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
