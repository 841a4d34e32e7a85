package app

import (
	"context"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/state"
	"golang.org/x/sync/errgroup"
)

const (
	homeNewsLimit          = 4
	homeEmployeesLimit     = 24
	homeAnnouncementsLimit = 5
)

// HomeView is the landing page state at one instant.
type HomeView struct {
	Stats         state.Snapshot[domain.UniversityStats]
	Contact       state.Snapshot[domain.ContactInfo]
	News          state.PagedSnapshot[domain.Item]
	Employees     state.PagedSnapshot[domain.Item]
	Announcements state.PagedSnapshot[domain.Item]
}

// Home is the landing page view model. Mounting it starts one hook per panel;
// the panels load concurrently and in no particular order.
type Home struct {
	stats         *state.Query[domain.UniversityStats]
	contact       *state.Query[domain.ContactInfo]
	news          *state.PagedQuery[domain.Item]
	employees     *state.PagedQuery[domain.Item]
	announcements *state.PagedQuery[domain.Item]

	cycles []*state.Cycle
}

func MountHome(svc *ContentService) *Home {
	h := &Home{
		stats: state.NewQuery("stats", func(ctx context.Context) (domain.UniversityStats, error) {
			return svc.GetUniversityStats(), nil
		}),
		contact: state.NewQuery("contact", func(ctx context.Context) (domain.ContactInfo, error) {
			return svc.GetContactInfo(), nil
		}),
		news: state.NewPagedQuery[domain.Item]("news", func(ctx context.Context, page, limit int) ([]domain.Item, error) {
			return svc.GetNews(ctx, page, limit), nil
		}, 1, homeNewsLimit),
		employees:     state.NewPagedQuery("employees", bareItems(svc.GetEmployeesPage), 1, homeEmployeesLimit),
		announcements: state.NewPagedQuery("announcements", bareItems(svc.GetAnnouncementsPage), 1, homeAnnouncementsLimit),
	}

	h.cycles = []*state.Cycle{
		h.stats.Activate(nil),
		h.contact.Activate(nil),
		h.news.Refresh(),
		h.employees.Refresh(),
		h.announcements.Refresh(),
	}
	return h
}

func bareItems(fn func(ctx context.Context, page, limit int) domain.Page) state.PageFetcher[domain.Item] {
	return func(ctx context.Context, page, limit int) ([]domain.Item, error) {
		return fn(ctx, page, limit).Results, nil
	}
}

// Await blocks until every panel mounted so far has settled or ctx is done.
func (h *Home) Await(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range h.cycles {
		c := c
		g.Go(func() error { return c.Wait(gctx) })
	}
	return g.Wait()
}

// RefreshNews re-fetches the news panel.
func (h *Home) RefreshNews() *state.Cycle {
	c := h.news.Refresh()
	h.cycles = append(h.cycles, c)
	return c
}

// RefreshEmployees re-fetches the staff panel, the retry affordance for a failed panel.
func (h *Home) RefreshEmployees() *state.Cycle {
	c := h.employees.Refresh()
	h.cycles = append(h.cycles, c)
	return c
}

func (h *Home) View() HomeView {
	return HomeView{
		Stats:         h.stats.Snapshot(),
		Contact:       h.contact.Snapshot(),
		News:          h.news.Snapshot(),
		Employees:     h.employees.Snapshot(),
		Announcements: h.announcements.Snapshot(),
	}
}

// Unmount tears down every panel. Results still in flight are discarded.
func (h *Home) Unmount() {
	h.stats.Close()
	h.contact.Close()
	h.news.Close()
	h.employees.Close()
	h.announcements.Close()
}
