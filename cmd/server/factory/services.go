package factory

import (
	"errors"
	"fmt"

	"github.com/UniversityPortal/internal/app"
	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/apiclient"
	"github.com/UniversityPortal/pkg/config"
)

// NewContentService creates the content service with validation.
func NewContentService(client *apiclient.Client, sink domain.EventSink, cfg *config.Config) (*app.ContentService, error) {
	if client == nil {
		return nil, errors.New("api client is nil")
	}
	if cfg.LoadAllMaxPages < 1 {
		return nil, fmt.Errorf("invalid load-all page cap: %d (must be >= 1)", cfg.LoadAllMaxPages)
	}
	if cfg.LoadAllMaxItems < 1 {
		return nil, fmt.Errorf("invalid load-all item cap: %d (must be >= 1)", cfg.LoadAllMaxItems)
	}

	return app.NewContentService(client, app.ContentOptions{
		Locale:   cfg.Locale,
		MaxPages: cfg.LoadAllMaxPages,
		MaxItems: cfg.LoadAllMaxItems,
		Sink:     sink,
	}), nil
}

// NewUpstreamProbe creates the readiness probe for the content API and broker.
func NewUpstreamProbe(client *apiclient.Client, cfg *config.Config) *app.UpstreamProbe {
	var brokers []string
	if cfg.KafkaEnabled() {
		brokers = cfg.KafkaBrokers
	}
	return app.NewUpstreamProbe(client.BaseURL(), brokers, cfg.KafkaTopic)
}
