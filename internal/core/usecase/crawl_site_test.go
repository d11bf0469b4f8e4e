package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/BerkanHRGL/schadeautos/internal/core/classifier"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
	usecases_port "github.com/BerkanHRGL/schadeautos/internal/core/port/usecases"
)

type scriptedPage struct {
	err      error
	listings []domain.ScrapedListing
	skipped  int
	hasNext  bool
}

// scriptedAdapter serves a fixed pagination script. Raw page content is just
// the page number so ExtractListings can look the script back up.
type scriptedAdapter struct {
	site   string
	pages  map[int]scriptedPage
	policy domain.PolitenessPolicy
}

func (a *scriptedAdapter) Site() string { return a.site }

func (a *scriptedAdapter) FetchPage(_ context.Context, page int) (string, error) {
	script, ok := a.pages[page]
	if !ok {
		return "", &domain.FetchError{Kind: domain.FetchNotFound, StatusCode: 404, Err: errors.New("no such page")}
	}
	if script.err != nil {
		return "", script.err
	}
	return strconv.Itoa(page), nil
}

func (a *scriptedAdapter) ExtractListings(rawPage string) ([]domain.ScrapedListing, int) {
	page, _ := strconv.Atoi(rawPage)
	script := a.pages[page]
	return script.listings, script.skipped
}

func (a *scriptedAdapter) HasNextPage(rawPage string) bool {
	page, _ := strconv.Atoi(rawPage)
	return a.pages[page].hasNext
}

func (a *scriptedAdapter) Politeness() domain.PolitenessPolicy { return a.policy }

type fakeResolver struct {
	adapter port.SiteAdapterPort
}

func (r *fakeResolver) Resolve(site string) (port.SiteAdapterPort, error) {
	if r.adapter == nil || r.adapter.Site() != site {
		return nil, domain.ErrUnknownSite
	}
	return r.adapter, nil
}

// fakeSaver reports every first fingerprint as new, repeats as unchanged.
type fakeSaver struct {
	mu   sync.Mutex
	seen map[domain.Fingerprint]bool
}

func newFakeSaver() *fakeSaver { return &fakeSaver{seen: make(map[domain.Fingerprint]bool)} }

func (s *fakeSaver) Execute(_ context.Context, listing domain.Listing, fp domain.Fingerprint) (usecases_port.SaveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[fp] {
		return usecases_port.SaveOutcome{Listing: listing}, nil
	}
	s.seen[fp] = true
	return usecases_port.SaveOutcome{Listing: listing, WasNew: true}, nil
}

func scrapedOnPage(site string, page, n int) []domain.ScrapedListing {
	out := make([]domain.ScrapedListing, n)
	for i := range out {
		out[i] = domain.ScrapedListing{
			SourceWebsite: site,
			ExternalID:    fmt.Sprintf("p%d-%d", page, i),
			URL:           fmt.Sprintf("https://example.test/p%d-%d", page, i),
			Title:         "Opel Corsa met krassen",
			Description:   "krassen op de motorkap",
		}
	}
	return out
}

func newCrawlUseCase(adapter port.SiteAdapterPort, runs *fakeRunStore, saver usecases_port.SaveListingPort, matcher *fakeMatcher) *CrawlSiteUseCase {
	return NewCrawlSiteUseCase(
		&fakeResolver{adapter: adapter},
		runs,
		saver,
		matcher,
		nil,
		classifier.DefaultDictionary(),
		newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		nil,
		CrawlSiteConfig{RunDeadline: time.Minute, ProcessWorkers: 2, ProcessGrace: time.Minute},
	)
}

func TestCrawlCompletesCleanRun(t *testing.T) {
	const site = "marktplaats.nl"
	adapter := &scriptedAdapter{
		site: site,
		pages: map[int]scriptedPage{
			1: {listings: scrapedOnPage(site, 1, 3), hasNext: true},
			2: {listings: scrapedOnPage(site, 2, 2), hasNext: false},
		},
		policy: domain.PolitenessPolicy{MaxPagesPerRun: 10},
	}
	runs := &fakeRunStore{}
	matcher := &fakeMatcher{}

	run, err := newCrawlUseCase(adapter, runs, newFakeSaver(), matcher).Execute(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}

	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	if run.PagesFetched != 2 || run.PagesFailed != 0 {
		t.Errorf("pages fetched/failed = %d/%d, want 2/0", run.PagesFetched, run.PagesFailed)
	}
	if run.ListingsFound != 5 || run.ListingsNew != 5 {
		t.Errorf("found/new = %d/%d, want 5/5", run.ListingsFound, run.ListingsNew)
	}
	if run.FinishedAt == nil {
		t.Error("finished run must carry FinishedAt")
	}
	if matcher.count() != 5 {
		t.Errorf("matched = %d, want every new listing", matcher.count())
	}

	final, ok := runs.lastUpdate()
	if !ok || final.Status != domain.RunStatusCompleted {
		t.Errorf("persisted final run = %+v", final)
	}
}

func TestCrawlPartialPageFailuresDegradeButContinue(t *testing.T) {
	const site = "marktplaats.nl"
	transient := &domain.FetchError{Kind: domain.FetchServerError, StatusCode: 503, Err: errors.New("upstream")}

	pages := map[int]scriptedPage{}
	for page := 1; page <= 10; page++ {
		pages[page] = scriptedPage{listings: scrapedOnPage(site, page, 1), hasNext: page < 10}
	}
	for _, failing := range []int{3, 5, 7} {
		pages[failing] = scriptedPage{err: transient}
	}

	adapter := &scriptedAdapter{site: site, pages: pages, policy: domain.PolitenessPolicy{MaxPagesPerRun: 10}}
	runs := &fakeRunStore{}

	run, err := newCrawlUseCase(adapter, runs, newFakeSaver(), &fakeMatcher{}).Execute(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}

	if run.Status != domain.RunStatusDegraded {
		t.Fatalf("status = %s, want degraded, not failed", run.Status)
	}
	if run.PagesFetched != 7 || run.PagesFailed != 3 {
		t.Errorf("pages fetched/failed = %d/%d, want 7/3", run.PagesFetched, run.PagesFailed)
	}
	if run.ListingsFound != 7 {
		t.Errorf("found = %d, want listings from every successful page", run.ListingsFound)
	}
	if run.LastError == "" {
		t.Error("degraded run must carry the last page error")
	}
}

func TestCrawlAllPagesFailedIsFailedRun(t *testing.T) {
	const site = "marktplaats.nl"
	transient := &domain.FetchError{Kind: domain.FetchTimeout, Err: errors.New("deadline")}

	adapter := &scriptedAdapter{
		site: site,
		pages: map[int]scriptedPage{
			1: {err: transient},
			2: {err: transient},
		},
		policy: domain.PolitenessPolicy{MaxPagesPerRun: 2},
	}

	run, err := newCrawlUseCase(adapter, &fakeRunStore{}, newFakeSaver(), &fakeMatcher{}).Execute(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != domain.RunStatusFailed {
		t.Fatalf("status = %s, want failed when no page succeeded", run.Status)
	}
}

func TestCrawlCountsParseSkips(t *testing.T) {
	const site = "schadeautos.nl"
	adapter := &scriptedAdapter{
		site: site,
		pages: map[int]scriptedPage{
			1: {listings: scrapedOnPage(site, 1, 2), skipped: 3, hasNext: false},
		},
		policy: domain.PolitenessPolicy{MaxPagesPerRun: 5},
	}

	run, err := newCrawlUseCase(adapter, &fakeRunStore{}, newFakeSaver(), &fakeMatcher{}).Execute(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}

	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("status = %s, want completed despite parse skips", run.Status)
	}
	if run.ListingsSkipped != 3 {
		t.Errorf("skipped = %d, want 3", run.ListingsSkipped)
	}
}

func TestCrawlNotFoundEndsPaginationCleanly(t *testing.T) {
	const site = "schadevoertuigen.nl"
	adapter := &scriptedAdapter{
		site: site,
		pages: map[int]scriptedPage{
			1: {listings: scrapedOnPage(site, 1, 2), hasNext: true},
			// page 2 is absent: the scripted adapter answers 404
		},
		policy: domain.PolitenessPolicy{MaxPagesPerRun: 10},
	}

	run, err := newCrawlUseCase(adapter, &fakeRunStore{}, newFakeSaver(), &fakeMatcher{}).Execute(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("status = %s, want completed on natural pagination end", run.Status)
	}
	if run.PagesFailed != 0 {
		t.Errorf("pages failed = %d, want 0", run.PagesFailed)
	}
}

// stallingAdapter serves its scripted pages, then blocks on any further
// fetch until the fetch context is cancelled.
type stallingAdapter struct {
	scriptedAdapter
}

func (a *stallingAdapter) FetchPage(ctx context.Context, page int) (string, error) {
	if _, ok := a.pages[page]; ok {
		return a.scriptedAdapter.FetchPage(ctx, page)
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func TestCrawlDeadlineDegradesRunButSavesExtracted(t *testing.T) {
	const site = "marktplaats.nl"
	adapter := &stallingAdapter{scriptedAdapter{
		site: site,
		pages: map[int]scriptedPage{
			1: {listings: scrapedOnPage(site, 1, 2), hasNext: true},
			// page 2 and beyond hang until the deadline cancels the fetch
		},
		policy: domain.PolitenessPolicy{MaxPagesPerRun: 10},
	}}
	runs := &fakeRunStore{}
	matcher := &fakeMatcher{}

	uc := NewCrawlSiteUseCase(
		&fakeResolver{adapter: adapter},
		runs,
		newFakeSaver(),
		matcher,
		nil,
		classifier.DefaultDictionary(),
		newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		nil,
		CrawlSiteConfig{RunDeadline: 150 * time.Millisecond, ProcessWorkers: 2, ProcessGrace: time.Second},
	)

	run, err := uc.Execute(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}

	if run.Status != domain.RunStatusDegraded {
		t.Fatalf("status = %s, want degraded after deadline cut the fetch phase", run.Status)
	}
	if run.PagesFetched != 1 || run.PagesFailed != 0 {
		t.Errorf("pages fetched/failed = %d/%d, want 1/0: a deadline abort is not a page failure", run.PagesFetched, run.PagesFailed)
	}
	if run.ListingsNew != 2 {
		t.Errorf("new = %d, want listings extracted before the deadline saved", run.ListingsNew)
	}
	if matcher.count() != 2 {
		t.Errorf("matched = %d, want every saved listing matched", matcher.count())
	}

	final, ok := runs.lastUpdate()
	if !ok || final.Status != domain.RunStatusDegraded {
		t.Errorf("persisted final run = %+v", final)
	}
}

func TestCrawlUnknownSiteRecordsFailedRun(t *testing.T) {
	runs := &fakeRunStore{}

	run, err := newCrawlUseCase(nil, runs, newFakeSaver(), &fakeMatcher{}).Execute(context.Background(), "nosuchsite.nl")
	if !errors.Is(err, domain.ErrUnknownSite) {
		t.Fatalf("err = %v, want ErrUnknownSite", err)
	}
	if run.Status != domain.RunStatusFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}

	final, ok := runs.lastUpdate()
	if !ok || final.Status != domain.RunStatusFailed || final.LastError == "" {
		t.Errorf("persisted failed run = %+v", final)
	}
}
