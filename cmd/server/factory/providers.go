package factory

import (
	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/apiclient"
	"github.com/UniversityPortal/internal/infra/fallback"
	"github.com/UniversityPortal/pkg/config"
)

// NewAPIClient creates the content API client behind the fallback registry.
func NewAPIClient(cfg *config.Config, reg *fallback.Registry, sink domain.EventSink) *apiclient.Client {
	return apiclient.NewClient(apiclient.Settings{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.HTTPTimeout,
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
		RateLimit:   cfg.APIRateLimit,
		RateBurst:   cfg.APIRateBurst,
	}, reg, sink)
}
