package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/UniversityPortal/internal/infra/metrics"
)

// SearchFunc runs a search for query.
type SearchFunc[T any] func(ctx context.Context, query string) ([]T, error)

type SearchSnapshot[T any] struct {
	Query   string `json:"query"`
	Results []T    `json:"results"`
	Loading bool   `json:"loading"`
}

// Search is the search hook. Failures are logged and counted, and show up as an
// empty result list rather than an error state.
type Search[T any] struct {
	engine[SearchSnapshot[T]]
	fn   SearchFunc[T]
	snap SearchSnapshot[T]
}

func NewSearch[T any](name string, fn SearchFunc[T]) *Search[T] {
	s := &Search[T]{fn: fn, snap: SearchSnapshot[T]{Results: []T{}}}
	s.init(name, s.Snapshot)
	return s
}

func (s *Search[T]) Snapshot() SearchSnapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Results = append([]T{}, s.snap.Results...)
	return out
}

// SetQuery records the text being typed without searching.
func (s *Search[T]) SetQuery(query string) {
	s.mu.Lock()
	s.snap.Query = query
	s.mu.Unlock()
	s.notify.changed()
}

// Search runs query. Blank input clears the results without calling the search function.
func (s *Search[T]) Search(query string) *Cycle {
	if strings.TrimSpace(query) == "" {
		_, ok := s.begin(func() {
			s.snap.Query = query
			s.snap.Results = []T{}
			s.snap.Loading = false
		})
		return completedCycle(ok)
	}

	gen, ok := s.begin(func() {
		s.snap.Query = query
		s.snap.Loading = true
	})
	if !ok {
		return completedCycle(false)
	}

	fn := s.fn
	var run func(context.Context) ([]T, error)
	if fn != nil {
		run = func(ctx context.Context) ([]T, error) { return fn(ctx, query) }
	}

	return launch(s.ctx, run, func(results []T, err error) bool {
		return s.finish(gen, func() {
			s.snap.Loading = false
			if err != nil {
				slog.Warn("Search Error", "hook", s.name, "query", query, "error", err)
				metrics.SearchFailures.Inc()
				s.snap.Results = []T{}
				return
			}
			if results == nil {
				results = []T{}
			}
			s.snap.Results = results
		})
	})
}

// Clear resets query and results and supersedes any search in flight.
func (s *Search[T]) Clear() {
	s.begin(func() {
		s.snap.Query = ""
		s.snap.Results = []T{}
		s.snap.Loading = false
	})
}
