package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/state"
	"golang.org/x/sync/errgroup"
)

const (
	searchPageSize = 10

	TypeNews         = "Yangilik"
	TypeAnnouncement = "E'lon"
)

// Search matches query case-insensitively against the title and text of the first
// page of news and announcements. Hits are tagged with a type label, news first.
// A blank query returns no results without touching the network.
func (s *ContentService) Search(ctx context.Context, query string) ([]domain.Item, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Item{}, nil
	}

	var news, announcements []domain.Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		news = s.GetNews(gctx, 1, searchPageSize)
		return nil
	})
	g.Go(func() error {
		announcements = s.GetAnnouncements(gctx, 1, searchPageSize)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := make([]domain.Item, 0)
	results = append(results, match(news, needle, TypeNews)...)
	results = append(results, match(announcements, needle, TypeAnnouncement)...)
	return results, nil
}

func match(items []domain.Item, needle, label string) []domain.Item {
	var out []domain.Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title()), needle) ||
			strings.Contains(strings.ToLower(it.Text()), needle) {
			tagged := it.Clone()
			tagged["type"] = label
			out = append(out, tagged)
		}
	}
	return out
}

// NewSearchHook returns a search hook over Search. Failed searches are reported as
// degradation events before the hook shows them as empty results.
func (s *ContentService) NewSearchHook() *state.Search[domain.Item] {
	return state.NewSearch[domain.Item]("search", func(ctx context.Context, query string) ([]domain.Item, error) {
		results, err := s.Search(ctx, query)
		if err != nil && !errors.Is(err, context.Canceled) {
			publish(ctx, s.sink, domain.DegradationSearch, "search", err.Error())
		}
		return results, err
	})
}

// RunSearch mounts a search hook for one query and returns its settled snapshot.
// When ctx ends first the snapshot is returned still loading along with ctx's error;
// a deadline is reported as a degraded search.
func (s *ContentService) RunSearch(ctx context.Context, query string) (state.SearchSnapshot[domain.Item], error) {
	hook := s.NewSearchHook()
	defer hook.Close()

	if err := hook.Search(query).Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("Search did not settle in time", "query", query)
			publish(ctx, s.sink, domain.DegradationSearch, "search", err.Error())
		}
		return hook.Snapshot(), err
	}
	return hook.Snapshot(), nil
}
