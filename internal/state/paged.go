package state

import (
	"context"
	"log/slog"
)

// PageFetcher loads one page as a bare sequence.
type PageFetcher[T any] func(ctx context.Context, page, limit int) ([]T, error)

type PagedSnapshot[T any] struct {
	Data       []T    `json:"data"`
	Loading    bool   `json:"loading"`
	Err        error  `json:"-"`
	Status     Status `json:"status"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalCount int    `json:"total_count"`
	HasMore    bool   `json:"has_more"`
}

// PagedQuery is the paginated-fetch hook.
//
// The fetcher returns a bare sequence, so HasMore is a heuristic: a full page
// (len == limit) suggests another one exists. Callers that can see the page
// envelope should use its next link instead (see app.Listing).
type PagedQuery[T any] struct {
	engine[PagedSnapshot[T]]
	fetch PageFetcher[T]
	snap  PagedSnapshot[T]
}

func NewPagedQuery[T any](name string, fetch PageFetcher[T], page, limit int) *PagedQuery[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	p := &PagedQuery[T]{
		fetch: fetch,
		snap:  PagedSnapshot[T]{Data: []T{}, Status: StatusIdle, Page: page, Limit: limit},
	}
	p.init(name, p.Snapshot)
	return p
}

func (p *PagedQuery[T]) Snapshot() PagedSnapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.snap
	s.Data = append([]T(nil), p.snap.Data...)
	return s
}

// SetParams changes page and limit and re-fetches.
func (p *PagedQuery[T]) SetParams(page, limit int) *Cycle {
	return p.activate(nil, page, limit)
}

func (p *PagedQuery[T]) SetPage(page int) *Cycle {
	return p.activate(nil, page, 0)
}

func (p *PagedQuery[T]) SetLimit(limit int) *Cycle {
	return p.activate(nil, 0, limit)
}

// SetFetcher binds a different operation and re-fetches with the current params.
func (p *PagedQuery[T]) SetFetcher(fetch PageFetcher[T]) *Cycle {
	return p.activate(fetch, 0, 0)
}

// Refresh re-issues the fetch for the current page and limit.
func (p *PagedQuery[T]) Refresh() *Cycle {
	return p.activate(nil, 0, 0)
}

func (p *PagedQuery[T]) activate(fetch PageFetcher[T], page, limit int) *Cycle {
	var (
		bound    PageFetcher[T]
		curPage  int
		curLimit int
	)
	gen, ok := p.begin(func() {
		if fetch != nil {
			p.fetch = fetch
		}
		if page > 0 {
			p.snap.Page = page
		}
		if limit > 0 {
			p.snap.Limit = limit
		}
		bound, curPage, curLimit = p.fetch, p.snap.Page, p.snap.Limit
		p.snap.Err = nil
		p.snap.Loading = true
		p.snap.Status = StatusLoading
	})
	if !ok {
		return completedCycle(false)
	}

	var run func(context.Context) ([]T, error)
	if bound != nil {
		run = func(ctx context.Context) ([]T, error) { return bound(ctx, curPage, curLimit) }
	}

	return launch(p.ctx, run, func(items []T, err error) bool {
		return p.finish(gen, func() {
			p.snap.Loading = false
			if err != nil {
				slog.Warn("Paginated API Error", "hook", p.name, "page", curPage, "limit", curLimit, "error", err)
				p.snap.Err = err
				p.snap.Status = StatusFailed
				return
			}
			if items == nil {
				items = []T{}
			}
			p.snap.Data = items
			p.snap.TotalCount = len(items)
			p.snap.HasMore = len(items) == curLimit
			p.snap.Status = StatusReady
		})
	})
}
