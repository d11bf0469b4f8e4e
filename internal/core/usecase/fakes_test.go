package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// fakeClock hands out a controllable time and never ticks on its own.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Tick(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	return ch, func() {}
}

// fakeListingStore is an in-memory ListingStorePort keyed by fingerprint.
type fakeListingStore struct {
	mu       sync.Mutex
	rows     map[domain.Fingerprint]domain.Listing
	creates  int
	updates  int
	touches  int
	failNext error

	// conflictOnCreate simulates a concurrent insert winning the race once.
	conflictOnCreate bool

	// missFirstFind makes the first lookup miss even when the row exists,
	// reproducing the window between a miss and a conflicting insert.
	missFirstFind bool
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{rows: make(map[domain.Fingerprint]domain.Listing)}
}

func (s *fakeListingStore) FindByFingerprint(_ context.Context, fp domain.Fingerprint) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missFirstFind {
		s.missFirstFind = false
		return domain.Listing{}, domain.ErrListingNotFound
	}
	row, ok := s.rows[fp]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return row, nil
}

func (s *fakeListingStore) Create(_ context.Context, fp domain.Fingerprint, listing domain.Listing) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return domain.Listing{}, err
	}
	if _, exists := s.rows[fp]; exists || s.conflictOnCreate {
		s.conflictOnCreate = false
		return domain.Listing{}, &domain.StoreConflictError{Fingerprint: fp}
	}
	s.creates++
	s.rows[fp] = listing
	return listing, nil
}

func (s *fakeListingStore) Update(_ context.Context, fp domain.Fingerprint, listing domain.Listing) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[fp]; !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	s.updates++
	s.rows[fp] = listing
	return listing, nil
}

func (s *fakeListingStore) Touch(_ context.Context, fp domain.Fingerprint, seenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[fp]
	if !ok {
		return domain.ErrListingNotFound
	}
	s.touches++
	row.LastSeen = seenAt
	s.rows[fp] = row
	return nil
}

func (s *fakeListingStore) Query(_ context.Context, filters domain.ListingFilters, _ domain.ListingSort, _ domain.Pagination) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, row := range s.rows {
		if filters.Make != "" && row.Make != filters.Make {
			continue
		}
		if filters.CosmeticOnly != nil && row.HasCosmeticDamageOnly != *filters.CosmeticOnly {
			continue
		}
		if filters.MinYear != nil && (row.Year == nil || *row.Year < *filters.MinYear) {
			continue
		}
		if filters.MaxYear != nil && (row.Year == nil || *row.Year > *filters.MaxYear) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeListingStore) GetByID(_ context.Context, id uuid.UUID) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return domain.Listing{}, domain.ErrListingNotFound
}

// fakeRunStore records run lifecycle writes.
type fakeRunStore struct {
	mu           sync.Mutex
	created      []domain.ScrapeRun
	updated      []domain.ScrapeRun
	failOnCreate error
}

func (s *fakeRunStore) Create(_ context.Context, run domain.ScrapeRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOnCreate != nil {
		return s.failOnCreate
	}
	s.created = append(s.created, run)
	return nil
}

func (s *fakeRunStore) Update(_ context.Context, run domain.ScrapeRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, run)
	return nil
}

func (s *fakeRunStore) Latest(context.Context) ([]domain.ScrapeRun, error) { return nil, nil }

func (s *fakeRunStore) List(context.Context, int) ([]domain.ScrapeRun, error) { return nil, nil }

func (s *fakeRunStore) lastUpdate() (domain.ScrapeRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updated) == 0 {
		return domain.ScrapeRun{}, false
	}
	return s.updated[len(s.updated)-1], true
}

// fakePreferenceStore serves a fixed preference set.
type fakePreferenceStore struct {
	prefs []domain.UserPreference
	err   error
}

func (s *fakePreferenceStore) ListActivePreferences(context.Context) ([]domain.UserPreference, error) {
	return s.prefs, s.err
}

// fakeNotifier records enqueued events and can reject them.
type fakeNotifier struct {
	mu      sync.Mutex
	events  []domain.NotificationEvent
	digests []domain.DigestEvent
	err     error
}

func (n *fakeNotifier) Enqueue(_ context.Context, event domain.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) EnqueueDigest(_ context.Context, digest domain.DigestEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.digests = append(n.digests, digest)
	return nil
}

// fakeMatcher records the listings handed to preference matching.
type fakeMatcher struct {
	mu       sync.Mutex
	listings []domain.Listing
}

func (m *fakeMatcher) Execute(_ context.Context, listing domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append(m.listings, listing)
	return nil
}

func (m *fakeMatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listings)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
