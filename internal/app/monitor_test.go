package app

import (
	"context"
	"testing"
	"time"

	"github.com/UniversityPortal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegradationMonitor(t *testing.T) {
	m := NewDegradationMonitor()
	ctx := context.Background()
	t0 := time.Date(2025, 3, 21, 10, 0, 0, 0, time.UTC)

	events := []*domain.DegradationEvent{
		{Kind: domain.DegradationFallback, Endpoint: "/uz/news/list/", Reason: "status 500", At: t0},
		{Kind: domain.DegradationFallback, Endpoint: "/uz/news/list/", Reason: "timeout", At: t0.Add(time.Minute)},
		{Kind: domain.DegradationFallback, Endpoint: "/uz/news/list/", Reason: "late", At: t0.Add(-time.Minute)},
		{Kind: domain.DegradationCapExceeded, Endpoint: "/uz/elon/list/", Reason: "page cap", At: t0},
	}
	for _, e := range events {
		require.NoError(t, m.Handle(ctx, e))
	}

	summary := m.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, "/uz/elon/list/", summary[0].Endpoint)
	assert.Equal(t, 1, summary[0].Counts[domain.DegradationCapExceeded])

	news := summary[1]
	assert.Equal(t, 3, news.Counts[domain.DegradationFallback])
	assert.Equal(t, "timeout", news.LastReason)
	assert.Equal(t, t0.Add(time.Minute), news.LastSeen)

	summary[1].Counts[domain.DegradationFallback] = 0
	assert.Equal(t, 3, m.Summary()[1].Counts[domain.DegradationFallback])
}
