package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/UniversityPortal/cmd/server/factory"
	"github.com/UniversityPortal/internal/app"
	"github.com/UniversityPortal/internal/infra/tracing"
	transport "github.com/UniversityPortal/internal/transport/http"
	"github.com/UniversityPortal/pkg/config"
	"go.uber.org/fx"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	fx.New(
		fx.Provide(
			// Config
			config.Load,

			// Infrastructure
			factory.NewFallbackRegistry,
			factory.NewEventSink,
			factory.NewAPIClient,

			// Services
			factory.NewContentService,
			factory.NewUpstreamProbe,

			// HTTP Server
			transport.NewHandlers,
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			LogUpstream,
			StartServer,
		),
	).Run()
}

// --- Invokers ---

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	ctx := context.Background()
	shutdown, err := tracing.InitTracer(ctx, "university-portal", cfg.OTelEndpoint)
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// LogUpstream reports upstream reachability once at startup. It never blocks:
// the portal serves fallback content while upstream is down.
func LogUpstream(lc fx.Lifecycle, probe *app.UpstreamProbe) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				status := probe.Check(context.Background())
				slog.Info("Upstream status", "healthy", status.Healthy(), "status", status)
			}()
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting portal server", "address", server.Addr)
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
