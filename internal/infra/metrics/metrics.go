package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_api_requests_total",
			Help: "The total number of content API requests by outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_api_request_duration_seconds",
			Help:    "Duration of content API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	FallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fallback_served_total",
			Help: "The total number of responses replaced by fallback content",
		},
		[]string{"endpoint", "kind"},
	)

	LoadAllPages = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_load_all_pages",
			Help:    "Number of pages fetched by a single load-all run",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"listing"},
	)

	LoadAllCapExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_load_all_cap_exceeded_total",
			Help: "Load-all runs stopped by the page or item cap",
		},
		[]string{"listing"},
	)

	LoadAllShared = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_load_all_shared_total",
			Help: "Load-all calls that joined an in-flight run instead of starting one",
		},
		[]string{"listing"},
	)

	SearchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_search_failures_total",
			Help: "Search runs that failed and were shown as empty results",
		},
	)

	StaleResponsesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_stale_responses_discarded_total",
			Help: "Fetch results discarded because the hook was superseded or closed",
		},
		[]string{"hook"},
	)

	DegradationEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_degradation_events_published_total",
			Help: "Total number of degradation events published",
		},
		[]string{"kind"},
	)

	DegradationEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_degradation_events_consumed_total",
			Help: "Degradation events read back by the monitor",
		},
		[]string{"kind", "endpoint"},
	)
)
