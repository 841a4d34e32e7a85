package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/metrics"
)

// ErrCapExceeded marks a load-all run stopped by its page or item cap.
var ErrCapExceeded = errors.New("load-all cap exceeded")

const (
	defaultMaxPages = 100
	defaultMaxItems = 10000
)

// Limits bounds a load-all run against a backend that never stops returning next links.
type Limits struct {
	MaxPages int
	MaxItems int
}

func (l Limits) withDefaults() Limits {
	if l.MaxPages < 1 {
		l.MaxPages = defaultMaxPages
	}
	if l.MaxItems < 1 {
		l.MaxItems = defaultMaxItems
	}
	return l
}

type DrainResult struct {
	Items     []domain.Item
	Pages     int
	LastPage  int
	Exhausted bool // the final page carried no next link
	Truncated bool // stopped by a cap while next was still set
}

// Drain fetches pages start, start+1, ... appending results until a page has
// no next link. It stops early on a fetch error, a cancelled context or a cap.
func Drain(ctx context.Context, fetch domain.PageFunc, start, batch int, limits Limits) (DrainResult, error) {
	limits = limits.withDefaults()
	if start < 1 {
		start = 1
	}
	res := DrainResult{Items: []domain.Item{}, LastPage: start - 1}

	for page := start; ; page++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p, err := fetch(ctx, page, batch)
		if err != nil {
			return res, fmt.Errorf("fetch page %d: %w", page, err)
		}
		res.Pages++
		res.LastPage = page
		res.Items = append(res.Items, p.Results...)

		if p.Next == "" {
			res.Exhausted = true
			if len(res.Items) > limits.MaxItems {
				res.Items = res.Items[:limits.MaxItems]
				res.Truncated = true
			}
			return res, nil
		}
		if res.Pages >= limits.MaxPages || len(res.Items) >= limits.MaxItems {
			if len(res.Items) > limits.MaxItems {
				res.Items = res.Items[:limits.MaxItems]
			}
			res.Truncated = true
			return res, nil
		}
	}
}

// Listing accumulates a paginated listing for "load more" and "load all" controls.
type Listing struct {
	name   string
	fetch  domain.PageFunc
	limit  int
	limits Limits
	sink   domain.EventSink

	fetchMu sync.Mutex // serializes page fetches

	mu       sync.Mutex
	items    []domain.Item
	lastPage int
	hasNext  bool
	running  *loadAllRun
}

type loadAllRun struct {
	done chan struct{}
	err  error
}

type ListingOption func(*Listing)

func WithLimits(l Limits) ListingOption {
	return func(ls *Listing) { ls.limits = l.withDefaults() }
}

func WithEventSink(sink domain.EventSink) ListingOption {
	return func(ls *Listing) { ls.sink = sink }
}

func NewListing(name string, fetch domain.PageFunc, limit int, opts ...ListingOption) *Listing {
	if limit < 1 {
		limit = defaultAnnouncementsPageLimit
	}
	l := &Listing{
		name:    name,
		fetch:   fetch,
		limit:   limit,
		limits:  Limits{}.withDefaults(),
		items:   []domain.Item{},
		hasNext: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadMore fetches the page after the last one fetched and appends it.
// Once the listing is exhausted it returns the accumulated items without fetching.
func (l *Listing) LoadMore(ctx context.Context) ([]domain.Item, error) {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	l.mu.Lock()
	if !l.hasNext {
		l.mu.Unlock()
		return l.Items(), nil
	}
	page := l.lastPage + 1
	l.mu.Unlock()

	p, err := l.fetch(ctx, page, l.limit)
	if err != nil {
		return l.Items(), fmt.Errorf("load page %d of %s: %w", page, l.name, err)
	}

	l.mu.Lock()
	l.items = append(l.items, p.Results...)
	l.lastPage = page
	l.hasNext = p.Next != ""
	l.mu.Unlock()

	return l.Items(), nil
}

// LoadAll keeps fetching until the listing is exhausted. A call made while another
// LoadAll is in flight waits for it and shares its outcome instead of fetching again.
func (l *Listing) LoadAll(ctx context.Context) ([]domain.Item, error) {
	l.mu.Lock()
	if run := l.running; run != nil {
		l.mu.Unlock()
		metrics.LoadAllShared.WithLabelValues(l.name).Inc()
		select {
		case <-run.done:
			return l.Items(), run.err
		case <-ctx.Done():
			return l.Items(), ctx.Err()
		}
	}
	run := &loadAllRun{done: make(chan struct{})}
	l.running = run
	l.mu.Unlock()

	run.err = l.loadAll(ctx)

	l.mu.Lock()
	l.running = nil
	l.mu.Unlock()
	close(run.done)

	return l.Items(), run.err
}

func (l *Listing) loadAll(ctx context.Context) error {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	l.mu.Lock()
	if !l.hasNext {
		l.mu.Unlock()
		return nil
	}
	start := l.lastPage + 1
	limits := l.limits
	limits.MaxItems -= len(l.items)
	l.mu.Unlock()

	if limits.MaxItems < 1 {
		l.capped(ctx, 0, 0)
		return nil
	}

	res, err := Drain(ctx, l.fetch, start, l.limit, limits)

	l.mu.Lock()
	l.items = append(l.items, res.Items...)
	l.lastPage = res.LastPage
	if res.Exhausted {
		l.hasNext = false
	}
	l.mu.Unlock()

	metrics.LoadAllPages.WithLabelValues(l.name).Observe(float64(res.Pages))
	if res.Truncated {
		l.capped(ctx, res.Pages, len(res.Items))
	}
	if err != nil {
		return fmt.Errorf("load all %s: %w", l.name, err)
	}
	return nil
}

// capped reports a load-all run that stopped while next was still set.
func (l *Listing) capped(ctx context.Context, pages, items int) {
	slog.Warn("Load-all stopped at cap, listing truncated",
		"listing", l.name, "pages", pages, "items", items, "held", len(l.Items()))
	metrics.LoadAllCapExceeded.WithLabelValues(l.name).Inc()
	publish(ctx, l.sink, domain.DegradationCapExceeded, l.name, ErrCapExceeded.Error())
}

// LoadPages presses load more until n pages are held or the listing is exhausted.
// n is bounded by the page cap.
func (l *Listing) LoadPages(ctx context.Context, n int) ([]domain.Item, error) {
	if n > l.limits.MaxPages {
		n = l.limits.MaxPages
	}
	for l.LastPage() < n && l.HasNext() {
		if _, err := l.LoadMore(ctx); err != nil {
			return l.Items(), err
		}
	}
	return l.Items(), nil
}

// Items returns a copy of the accumulated items.
func (l *Listing) Items() []domain.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Item, len(l.items))
	copy(out, l.items)
	return out
}

// HasNext reports whether the load-more control should stay visible.
func (l *Listing) HasNext() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasNext
}

func (l *Listing) LastPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastPage
}

// Reset drops accumulated items so the next LoadMore starts at page 1.
func (l *Listing) Reset() {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = []domain.Item{}
	l.lastPage = 0
	l.hasNext = true
}
