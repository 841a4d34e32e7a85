package domain

import (
	"context"
	"net/url"
	"time"
)

// APIClient calls the remote content API. Implementations never fail:
// transport, protocol and parse errors resolve to fallback content.
type APIClient interface {
	Call(ctx context.Context, path string, query url.Values) Envelope
}

// PageFunc fetches one page of a paginated listing.
type PageFunc func(ctx context.Context, page, limit int) (Page, error)

// DegradationKind classifies why content was degraded.
type DegradationKind string

const (
	DegradationFallback    DegradationKind = "fallback"
	DegradationCapExceeded DegradationKind = "cap_exceeded"
	DegradationSearch      DegradationKind = "search_failed"
)

// DegradationEvent records that a user-visible panel served degraded content.
type DegradationEvent struct {
	ID       string          `json:"id"`
	Kind     DegradationKind `json:"kind"`
	Endpoint string          `json:"endpoint"`
	Reason   string          `json:"reason"`
	At       time.Time       `json:"at"`
}

// EventSink receives degradation events. Publishing is best-effort.
type EventSink interface {
	Publish(ctx context.Context, event *DegradationEvent) error
	Close() error
}
