package app

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/metrics"
)

// EndpointHealth is the degradation history of one endpoint as seen by the monitor.
type EndpointHealth struct {
	Endpoint   string                         `json:"endpoint"`
	Counts     map[domain.DegradationKind]int `json:"counts"`
	LastReason string                         `json:"last_reason"`
	LastSeen   time.Time                      `json:"last_seen"`
}

// DegradationMonitor tallies degradation events per endpoint.
type DegradationMonitor struct {
	mu        sync.Mutex
	endpoints map[string]*EndpointHealth
}

func NewDegradationMonitor() *DegradationMonitor {
	return &DegradationMonitor{endpoints: make(map[string]*EndpointHealth)}
}

// Handle records one event. Events arriving out of order never move LastSeen back.
func (m *DegradationMonitor) Handle(_ context.Context, event *domain.DegradationEvent) error {
	metrics.DegradationEventsConsumed.WithLabelValues(string(event.Kind), event.Endpoint).Inc()

	m.mu.Lock()
	h, ok := m.endpoints[event.Endpoint]
	if !ok {
		h = &EndpointHealth{Endpoint: event.Endpoint, Counts: make(map[domain.DegradationKind]int)}
		m.endpoints[event.Endpoint] = h
	}
	h.Counts[event.Kind]++
	if !event.At.Before(h.LastSeen) {
		h.LastSeen = event.At
		h.LastReason = event.Reason
	}
	m.mu.Unlock()

	slog.Info("Degradation observed", "kind", event.Kind, "endpoint", event.Endpoint, "reason", event.Reason)
	return nil
}

// Summary returns a copy of the tallies, ordered by endpoint.
func (m *DegradationMonitor) Summary() []EndpointHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]EndpointHealth, 0, len(m.endpoints))
	for _, h := range m.endpoints {
		counts := make(map[domain.DegradationKind]int, len(h.Counts))
		for k, v := range h.Counts {
			counts[k] = v
		}
		out = append(out, EndpointHealth{Endpoint: h.Endpoint, Counts: counts, LastReason: h.LastReason, LastSeen: h.LastSeen})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}
