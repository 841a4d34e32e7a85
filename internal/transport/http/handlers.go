package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UniversityPortal/internal/app"
	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/state"
)

const (
	homeRenderTimeout = 15 * time.Second
	searchTimeout     = 10 * time.Second
)

type Handlers struct {
	svc   *app.ContentService
	probe *app.UpstreamProbe
}

func NewHandlers(svc *app.ContentService, probe *app.UpstreamProbe) *Handlers {
	return &Handlers{svc: svc, probe: probe}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func intParam(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.probe.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *Handlers) News(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GetNews(r.Context(), intParam(r, "page"), intParam(r, "limit")))
}

func (h *Handlers) Announcements(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, h.svc.GetAnnouncementsPage, h.svc.GetAllAnnouncements, h.svc.AnnouncementsListing)
}

func (h *Handlers) Employees(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, h.svc.GetEmployeesPage, h.svc.GetAllEmployees, h.svc.EmployeesListing)
}

type loadMoreResponse struct {
	Results  []domain.Item `json:"results"`
	Count    int           `json:"count"`
	LastPage int           `json:"last_page"`
	HasNext  bool          `json:"has_next"`
}

// listing serves one page (page, limit), the first n pages accumulated as by
// pressing load more (pages=n, limit), or everything (all=1, limit as batch size).
func (h *Handlers) listing(
	w http.ResponseWriter,
	r *http.Request,
	page func(ctx context.Context, page, limit int) domain.Page,
	all func(ctx context.Context, batch int) ([]domain.Item, error),
	more func(limit int) *app.Listing,
) {
	if n := intParam(r, "pages"); n > 0 {
		l := more(intParam(r, "limit"))
		items, err := l.LoadPages(r.Context(), n)
		if err != nil {
			slog.Debug("Load more abandoned", "path", r.URL.Path, "error", err)
			return
		}
		writeJSON(w, http.StatusOK, loadMoreResponse{Results: items, Count: len(items), LastPage: l.LastPage(), HasNext: l.HasNext()})
		return
	}
	if r.URL.Query().Get("all") != "" {
		items, err := all(r.Context(), intParam(r, "limit"))
		if err != nil {
			// Only a cancelled request gets here; the client is gone.
			slog.Debug("Load-all abandoned", "path", r.URL.Path, "error", err)
			return
		}
		writeJSON(w, http.StatusOK, domain.Page{Results: items, Count: len(items)})
		return
	}
	writeJSON(w, http.StatusOK, page(r.Context(), intParam(r, "page"), intParam(r, "limit")))
}

func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GetContactInfo())
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GetUniversityStats())
}

func (h *Handlers) Faculties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GetFaculties())
}

// Search runs the query through a per-request search hook. A search still running
// at the deadline is returned as loading with no results.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	snap, err := h.svc.RunSearch(ctx, r.URL.Query().Get("q"))
	if err != nil && r.Context().Err() != nil {
		slog.Debug("Search abandoned", "query", snap.Query, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type panel struct {
	Status     state.Status `json:"status"`
	Loading    bool         `json:"loading"`
	Error      string       `json:"error,omitempty"`
	Data       any          `json:"data"`
	Page       int          `json:"page,omitempty"`
	Limit      int          `json:"limit,omitempty"`
	TotalCount *int         `json:"total_count,omitempty"`
	HasMore    *bool        `json:"has_more,omitempty"`
}

func queryPanel[T any](s state.Snapshot[T]) panel {
	p := panel{Status: s.Status, Loading: s.Loading, Data: s.Data}
	if s.Err != nil {
		p.Error = s.Err.Error()
	}
	return p
}

func pagedPanel[T any](s state.PagedSnapshot[T]) panel {
	p := panel{
		Status:     s.Status,
		Loading:    s.Loading,
		Data:       s.Data,
		Page:       s.Page,
		Limit:      s.Limit,
		TotalCount: &s.TotalCount,
		HasMore:    &s.HasMore,
	}
	if s.Err != nil {
		p.Error = s.Err.Error()
	}
	return p
}

// Home renders the landing page panels. Panels still loading when the render
// deadline passes are returned in their loading state.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	home := app.MountHome(h.svc)
	defer home.Unmount()

	ctx, cancel := context.WithTimeout(r.Context(), homeRenderTimeout)
	defer cancel()
	if err := home.Await(ctx); err != nil {
		slog.Warn("Home render deadline reached with panels still loading", "error", err)
	}

	view := home.View()
	writeJSON(w, http.StatusOK, map[string]panel{
		"stats":         queryPanel(view.Stats),
		"contact":       queryPanel(view.Contact),
		"news":          pagedPanel(view.News),
		"employees":     pagedPanel(view.Employees),
		"announcements": pagedPanel(view.Announcements),
	})
}
