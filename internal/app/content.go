package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	defaultNewsLimit              = 4
	defaultAnnouncementsLimit     = 5
	defaultAnnouncementsPageLimit = 10
	defaultEmployeesPageLimit     = 24
	defaultAnnouncementsBatch     = 50
	defaultEmployeesBatch         = 100

	listingAnnouncements = "announcements"
	listingEmployees     = "employees"
)

// ContentOptions configures a ContentService. Zero values select defaults.
type ContentOptions struct {
	Locale   string
	MaxPages int
	MaxItems int
	Sink     domain.EventSink
}

// ContentService exposes typed content operations on top of the API client.
// None of its getters fail on upstream errors: the client degrades to fallback content.
type ContentService struct {
	api    domain.APIClient
	locale string
	limits Limits
	sink   domain.EventSink
	group  singleflight.Group
}

func NewContentService(api domain.APIClient, opts ContentOptions) *ContentService {
	if opts.Locale == "" {
		opts.Locale = "uz"
	}
	return &ContentService{
		api:    api,
		locale: opts.Locale,
		limits: Limits{MaxPages: opts.MaxPages, MaxItems: opts.MaxItems}.withDefaults(),
		sink:   opts.Sink,
	}
}

func (s *ContentService) path(kind string) string {
	return fmt.Sprintf("/%s/%s/list/", s.locale, kind)
}

func (s *ContentService) NewsPath() string          { return s.path("news") }
func (s *ContentService) AnnouncementsPath() string { return s.path("elon") }
func (s *ContentService) EmployeesPath() string     { return s.path("xodim") }

func (s *ContentService) list(ctx context.Context, path string, page, limit, defaultLimit int) domain.Envelope {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return s.api.Call(ctx, path, domain.Endpoint{Path: path, Page: page, Limit: limit}.Query())
}

// GetNews returns one page of news items.
func (s *ContentService) GetNews(ctx context.Context, page, limit int) []domain.Item {
	return domain.NewPage(s.list(ctx, s.NewsPath(), page, limit, defaultNewsLimit)).Results
}

// GetAnnouncements returns one page of announcements as a bare sequence.
func (s *ContentService) GetAnnouncements(ctx context.Context, page, limit int) []domain.Item {
	return domain.NewPage(s.list(ctx, s.AnnouncementsPath(), page, limit, defaultAnnouncementsLimit)).Results
}

func (s *ContentService) GetAnnouncementsPage(ctx context.Context, page, limit int) domain.Page {
	return domain.NewPage(s.list(ctx, s.AnnouncementsPath(), page, limit, defaultAnnouncementsPageLimit))
}

func (s *ContentService) GetEmployeesPage(ctx context.Context, page, limit int) domain.Page {
	return domain.NewPage(s.list(ctx, s.EmployeesPath(), page, limit, defaultEmployeesPageLimit))
}

// AnnouncementsListing returns a load-more listing over announcement pages of limit items.
func (s *ContentService) AnnouncementsListing(limit int) *Listing {
	if limit < 1 {
		limit = defaultAnnouncementsPageLimit
	}
	return NewListing(listingAnnouncements, PageFunc(s.GetAnnouncementsPage), limit,
		WithLimits(s.limits), WithEventSink(s.sink))
}

func (s *ContentService) EmployeesListing(limit int) *Listing {
	if limit < 1 {
		limit = defaultEmployeesPageLimit
	}
	return NewListing(listingEmployees, PageFunc(s.GetEmployeesPage), limit,
		WithLimits(s.limits), WithEventSink(s.sink))
}

// GetAllAnnouncements follows next links from page 1 until the listing is exhausted
// or a cap is hit. Concurrent calls with the same batch size share one run.
func (s *ContentService) GetAllAnnouncements(ctx context.Context, batch int) ([]domain.Item, error) {
	if batch < 1 {
		batch = defaultAnnouncementsBatch
	}
	return s.getAll(ctx, listingAnnouncements, batch, PageFunc(s.GetAnnouncementsPage))
}

func (s *ContentService) GetAllEmployees(ctx context.Context, batch int) ([]domain.Item, error) {
	if batch < 1 {
		batch = defaultEmployeesBatch
	}
	return s.getAll(ctx, listingEmployees, batch, PageFunc(s.GetEmployeesPage))
}

func (s *ContentService) getAll(ctx context.Context, listing string, batch int, fetch domain.PageFunc) ([]domain.Item, error) {
	key := fmt.Sprintf("%s:%d", listing, batch)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Detached so one caller going away does not truncate the run for the others.
		runCtx := context.WithoutCancel(ctx)
		tr := otel.Tracer("content-service")
		runCtx, span := tr.Start(runCtx, "ContentService.getAll")
		defer span.End()
		span.SetAttributes(attribute.String("listing", listing), attribute.Int("batch", batch))

		res, err := Drain(runCtx, fetch, 1, batch, s.limits)
		if res.Truncated {
			s.capExceeded(runCtx, listing, res)
		}
		metrics.LoadAllPages.WithLabelValues(listing).Observe(float64(res.Pages))
		return res.Items, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			metrics.LoadAllShared.WithLabelValues(listing).Inc()
		}
		if r.Err != nil {
			return nil, r.Err
		}
		items := r.Val.([]domain.Item)
		out := make([]domain.Item, len(items))
		copy(out, items)
		return out, nil
	}
}

func (s *ContentService) capExceeded(ctx context.Context, listing string, res DrainResult) {
	slog.Warn("Load-all stopped at cap, listing truncated",
		"listing", listing, "pages", res.Pages, "items", len(res.Items),
		"max_pages", s.limits.MaxPages, "max_items", s.limits.MaxItems)
	metrics.LoadAllCapExceeded.WithLabelValues(listing).Inc()
	publish(ctx, s.sink, domain.DegradationCapExceeded, listing, ErrCapExceeded.Error())
}

// GetUniversityStats returns static headline figures. No network access.
func (s *ContentService) GetUniversityStats() domain.UniversityStats {
	return domain.UniversityStats{
		FoundedYear:    1991,
		TotalStudents:  15000,
		TotalFaculties: 12,
		TotalPrograms:  50,
	}
}

func (s *ContentService) GetContactInfo() domain.ContactInfo {
	return domain.ContactInfo{
		Phone1:  "(+998) 65 221-30-46",
		Phone2:  "(+998) 65 221-29-06",
		Email:   "buxdu_rektor@buxdu.uz",
		Address: "Buxoro sh. M.Iqbol ko'chasi 11-uy",
	}
}

func (s *ContentService) GetFaculties() []domain.Faculty {
	return []domain.Faculty{
		{ID: 1, Name: "Filologiya fakulteti"},
		{ID: 2, Name: "Tarix fakulteti"},
		{ID: 3, Name: "Matematika fakulteti"},
		{ID: 4, Name: "Fizika fakulteti"},
		{ID: 5, Name: "Kimyo fakulteti"},
		{ID: 6, Name: "Biologiya fakulteti"},
		{ID: 7, Name: "Geografiya fakulteti"},
		{ID: 8, Name: "Pedagogika fakulteti"},
		{ID: 9, Name: "Psixologiya fakulteti"},
		{ID: 10, Name: "Jurnalistika fakulteti"},
		{ID: 11, Name: "Xorijiy tillar fakulteti"},
		{ID: 12, Name: "San'at fakulteti"},
	}
}

// PageFunc adapts an infallible page getter to domain.PageFunc.
func PageFunc(fn func(ctx context.Context, page, limit int) domain.Page) domain.PageFunc {
	return func(ctx context.Context, page, limit int) (domain.Page, error) {
		return fn(ctx, page, limit), nil
	}
}
