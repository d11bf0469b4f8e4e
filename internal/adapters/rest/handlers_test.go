package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

type stubRunStore struct {
	latest []domain.ScrapeRun
	listed []domain.ScrapeRun
}

func (s *stubRunStore) Create(context.Context, domain.ScrapeRun) error { return nil }
func (s *stubRunStore) Update(context.Context, domain.ScrapeRun) error { return nil }
func (s *stubRunStore) Latest(context.Context) ([]domain.ScrapeRun, error) {
	return s.latest, nil
}
func (s *stubRunStore) List(context.Context, int) ([]domain.ScrapeRun, error) {
	return s.listed, nil
}

type stubListingStore struct {
	byID    map[uuid.UUID]domain.Listing
	queried []domain.Listing

	lastFilters domain.ListingFilters
}

func (s *stubListingStore) FindByFingerprint(context.Context, domain.Fingerprint) (domain.Listing, error) {
	return domain.Listing{}, domain.ErrListingNotFound
}
func (s *stubListingStore) Create(_ context.Context, _ domain.Fingerprint, l domain.Listing) (domain.Listing, error) {
	return l, nil
}
func (s *stubListingStore) Update(_ context.Context, _ domain.Fingerprint, l domain.Listing) (domain.Listing, error) {
	return l, nil
}
func (s *stubListingStore) Touch(context.Context, domain.Fingerprint, time.Time) error { return nil }
func (s *stubListingStore) Query(_ context.Context, filters domain.ListingFilters, _ domain.ListingSort, _ domain.Pagination) ([]domain.Listing, error) {
	s.lastFilters = filters
	return s.queried, nil
}
func (s *stubListingStore) GetByID(_ context.Context, id uuid.UUID) (domain.Listing, error) {
	listing, ok := s.byID[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return listing, nil
}

type stubFlusher struct {
	flushed   int
	frequency domain.NotificationFrequency
}

func (s *stubFlusher) Flush(_ context.Context, frequency domain.NotificationFrequency) (int, error) {
	s.frequency = frequency
	return s.flushed, nil
}

func newTestRouter(runs *stubRunStore, listings *stubListingStore, flusher *stubFlusher) http.Handler {
	return NewRouter(NewHandlers(runs, listings, flusher), port.NoopLogger(), nil)
}

func TestLatestRunsEndpoint(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	runs := &stubRunStore{latest: []domain.ScrapeRun{
		{ID: uuid.New(), Site: "marktplaats.nl", StartedAt: now, Status: domain.RunStatusDegraded, PagesFailed: 2},
	}}

	rec := httptest.NewRecorder()
	newTestRouter(runs, &stubListingStore{}, &stubFlusher{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body []runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || body[0].Site != "marktplaats.nl" || body[0].Status != "degraded" {
		t.Errorf("body = %+v", body)
	}
}

func TestQueryListingsParsesFilters(t *testing.T) {
	listings := &stubListingStore{}

	rec := httptest.NewRecorder()
	newTestRouter(&stubRunStore{}, listings, &stubFlusher{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/v1/listings?minPrice=5000&maxPrice=8000&make=BMW&cosmeticOnly=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := listings.lastFilters
	if got.MinPrice == nil || *got.MinPrice != 5000 || got.MaxPrice == nil || *got.MaxPrice != 8000 {
		t.Errorf("price filters = %v/%v", got.MinPrice, got.MaxPrice)
	}
	if got.Make != "BMW" || got.CosmeticOnly == nil || !*got.CosmeticOnly {
		t.Errorf("filters = %+v", got)
	}
}

func TestQueryListingsRejectsBadParams(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubRunStore{}, &stubListingStore{}, &stubFlusher{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings?minPrice=cheap", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetListingNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubRunStore{}, &stubListingStore{byID: map[uuid.UUID]domain.Listing{}}, &stubFlusher{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings/"+uuid.NewString(), nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestFlushDigestsValidatesFrequency(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubRunStore{}, &stubListingStore{}, &stubFlusher{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/digests/flush?frequency=instant", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFlushDigestsFlushesDaily(t *testing.T) {
	flusher := &stubFlusher{flushed: 3}

	rec := httptest.NewRecorder()
	newTestRouter(&stubRunStore{}, &stubListingStore{}, flusher).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/digests/flush?frequency=daily", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if flusher.frequency != domain.FrequencyDaily {
		t.Errorf("flushed frequency = %s", flusher.frequency)
	}

	var body flushResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Flushed != 3 || body.Frequency != "daily" {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubRunStore{}, &stubListingStore{}, &stubFlusher{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
