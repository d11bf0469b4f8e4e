package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BerkanHRGL/schadeautos/internal/contextkeys"
	"github.com/BerkanHRGL/schadeautos/internal/core/classifier"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
	usecases_port "github.com/BerkanHRGL/schadeautos/internal/core/port/usecases"
	"github.com/BerkanHRGL/schadeautos/internal/metrics"
)

// AdapterResolver returns the site adapter registered for a site id.
type AdapterResolver interface {
	Resolve(site string) (port.SiteAdapterPort, error)
}

// CrawlSiteConfig tunes one crawl cycle independent of any site's
// politeness policy.
type CrawlSiteConfig struct {
	// RunDeadline bounds the fetch phase of a whole cycle. Listings already
	// extracted when it expires are still classified and saved.
	RunDeadline time.Duration

	// ProcessWorkers is the number of goroutines classifying and saving
	// extracted listings.
	ProcessWorkers int

	// ProcessGrace bounds listing processing after the fetch phase ended.
	ProcessGrace time.Duration
}

func (c CrawlSiteConfig) withDefaults() CrawlSiteConfig {
	if c.RunDeadline <= 0 {
		c.RunDeadline = 10 * time.Minute
	}
	if c.ProcessWorkers <= 0 {
		c.ProcessWorkers = 4
	}
	if c.ProcessGrace <= 0 {
		c.ProcessGrace = 2 * time.Minute
	}
	return c
}

// CrawlSiteUseCase runs one full scrape cycle for one site: paginate and
// fetch, extract, classify, rate, dedup, match, and finalize the run record.
type CrawlSiteUseCase struct {
	resolver AdapterResolver
	runs     port.RunStorePort
	saver    usecases_port.SaveListingPort
	matcher  usecases_port.MatchPreferencesPort
	rater    *DealRater
	dict     classifier.Dictionary
	clock    port.ClockPort
	metrics  *metrics.Metrics
	config   CrawlSiteConfig
}

func NewCrawlSiteUseCase(
	resolver AdapterResolver,
	runs port.RunStorePort,
	saver usecases_port.SaveListingPort,
	matcher usecases_port.MatchPreferencesPort,
	rater *DealRater,
	dict classifier.Dictionary,
	clock port.ClockPort,
	m *metrics.Metrics,
	config CrawlSiteConfig,
) *CrawlSiteUseCase {
	return &CrawlSiteUseCase{
		resolver: resolver,
		runs:     runs,
		saver:    saver,
		matcher:  matcher,
		rater:    rater,
		dict:     dict,
		clock:    clock,
		metrics:  m,
		config:   config.withDefaults(),
	}
}

func (uc *CrawlSiteUseCase) Execute(ctx context.Context, site string) (domain.ScrapeRun, error) {
	config := uc.config
	run := domain.NewScrapeRun(site, uc.clock.Now())
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"site":   site,
		"run_id": run.ID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	if err := uc.runs.Create(ctx, run); err != nil {
		run.Status = domain.RunStatusFailed
		run.LastError = err.Error()
		return run, fmt.Errorf("recording run: %w", err)
	}

	adapter, err := uc.resolver.Resolve(site)
	if err != nil {
		return uc.finalize(ctx, run, domain.RunStatusFailed, err)
	}
	logger.Info("scrape run started", nil)

	fetchCtx, cancelFetch := context.WithTimeout(ctx, config.RunDeadline)
	defer cancelFetch()

	// Listing processing outlives the fetch deadline on purpose: pages that
	// were fetched before the cutoff still produce saved listings.
	processCtx, cancelProcess := context.WithTimeout(context.WithoutCancel(ctx), config.RunDeadline+config.ProcessGrace)
	defer cancelProcess()
	processCtx = contextkeys.ContextWithLogger(processCtx, logger)

	counters := &runCounters{}
	jobs := make(chan domain.ScrapedListing, 64)
	var workers sync.WaitGroup
	for i := 0; i < config.ProcessWorkers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for scraped := range jobs {
				uc.processListing(processCtx, scraped, counters)
			}
		}()
	}

	deadlineHit := uc.fetchPages(fetchCtx, adapter, &run, jobs, logger)
	close(jobs)
	workers.Wait()

	run.ListingsNew = counters.created
	run.ListingsUpdated = counters.updated

	status := domain.RunStatusCompleted
	if run.PagesFailed > 0 || deadlineHit {
		status = domain.RunStatusDegraded
	}
	// A cycle that fetched no page at all produced nothing; that is a
	// failed session, not a degraded one.
	if run.PagesFetched == 0 && run.PagesFailed > 0 {
		status = domain.RunStatusFailed
	}
	return uc.finalize(ctx, run, status, nil)
}

// fetchPages walks result pages until the page budget, the last page or the
// run deadline. It reports whether the deadline cut the cycle short.
func (uc *CrawlSiteUseCase) fetchPages(
	ctx context.Context,
	adapter port.SiteAdapterPort,
	run *domain.ScrapeRun,
	jobs chan<- domain.ScrapedListing,
	logger port.LoggerPort,
) bool {
	policy := adapter.Politeness()
	maxPages := policy.MaxPagesPerRun
	if maxPages <= 0 {
		maxPages = 1
	}

	for page := 1; page <= maxPages; page++ {
		if ctx.Err() != nil {
			logger.Warn("run deadline reached, aborting fetch phase", port.Fields{"page": page})
			return true
		}

		rawPage, err := adapter.FetchPage(ctx, page)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				logger.Warn("run deadline reached mid-fetch", port.Fields{"page": page})
				return true
			}

			var fetchErr *domain.FetchError
			if errors.As(err, &fetchErr) && fetchErr.Kind == domain.FetchNotFound {
				// Overran the last page; a natural end, not a failure.
				logger.Debug("pagination ended with not found", port.Fields{"page": page})
				return false
			}

			run.PagesFailed++
			run.LastError = err.Error()
			uc.incPageFailed(run.Site)
			logger.Warn("page failed, continuing crawl", port.Fields{"page": page, "error": err.Error()})
			continue
		}

		run.PagesFetched++
		uc.incPageFetched(run.Site)

		listings, skipped := adapter.ExtractListings(rawPage)
		run.ListingsFound += len(listings)
		run.ListingsSkipped += skipped
		uc.observeExtraction(run.Site, len(listings), skipped)

		for _, scraped := range listings {
			jobs <- scraped
		}

		if !adapter.HasNextPage(rawPage) {
			return false
		}
	}
	return false
}

// processListing classifies, rates and saves one extracted listing, then
// hands it to the preference matcher when it was created or materially
// changed. Failures are logged and dropped; one listing never poisons the run.
func (uc *CrawlSiteUseCase) processListing(ctx context.Context, scraped domain.ScrapedListing, counters *runCounters) {
	logger := contextkeys.LoggerFromContext(ctx)

	result := classifier.Classify(uc.dict, scraped.Description, scraped.DamageDescription)
	listing := listingFromScraped(scraped, result)

	if uc.rater != nil {
		uc.rater.Rate(ctx, &listing)
	}

	outcome, err := uc.saver.Execute(ctx, listing, domain.ComputeFingerprint(scraped))
	if err != nil {
		logger.Error("saving listing failed", err, port.Fields{"url": scraped.URL})
		return
	}
	counters.observe(outcome)

	if !outcome.WasNew && !outcome.Changed {
		return
	}
	if err := uc.matcher.Execute(ctx, outcome.Listing); err != nil {
		logger.Error("preference matching failed", err, port.Fields{"listing_id": outcome.Listing.ID.String()})
	}
}

func (uc *CrawlSiteUseCase) finalize(ctx context.Context, run domain.ScrapeRun, status domain.RunStatus, cause error) (domain.ScrapeRun, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	now := uc.clock.Now()

	run.Status = status
	run.FinishedAt = &now
	if cause != nil {
		run.LastError = cause.Error()
	}

	if err := uc.runs.Update(ctx, run); err != nil {
		logger.Error("persisting run result failed", err, port.Fields{"run_id": run.ID.String()})
	}
	uc.metrics.ObserveRun(run.Site, string(run.Status), now.Sub(run.StartedAt))

	logger.Info("scrape run finished", port.Fields{
		"status":           string(run.Status),
		"pages_fetched":    run.PagesFetched,
		"pages_failed":     run.PagesFailed,
		"listings_found":   run.ListingsFound,
		"listings_new":     run.ListingsNew,
		"listings_updated": run.ListingsUpdated,
		"listings_skipped": run.ListingsSkipped,
	})

	return run, cause
}

func listingFromScraped(scraped domain.ScrapedListing, result classifier.Result) domain.Listing {
	return domain.Listing{
		SourceWebsite:         scraped.SourceWebsite,
		ExternalID:            scraped.ExternalID,
		URL:                   scraped.URL,
		Title:                 scraped.Title,
		Make:                  scraped.Make,
		Model:                 scraped.Model,
		Year:                  scraped.Year,
		Price:                 scraped.Price,
		Mileage:               scraped.Mileage,
		FuelType:              scraped.FuelType,
		Transmission:          scraped.Transmission,
		Color:                 scraped.Color,
		Location:              scraped.Location,
		Images:                scraped.Images,
		Description:           scraped.Description,
		DamageDescription:     scraped.DamageDescription,
		DamageKeywords:        result.Keywords,
		HasCosmeticDamageOnly: result.CosmeticOnly,
		ContactInfo:           scraped.ContactInfo,
	}
}

type runCounters struct {
	mu      sync.Mutex
	created int
	updated int
}

func (c *runCounters) observe(outcome usecases_port.SaveOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if outcome.WasNew {
		c.created++
	}
	if outcome.Changed {
		c.updated++
	}
}

func (uc *CrawlSiteUseCase) incPageFetched(site string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PagesFetched.WithLabelValues(site).Inc()
}

func (uc *CrawlSiteUseCase) incPageFailed(site string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PagesFailed.WithLabelValues(site).Inc()
}

func (uc *CrawlSiteUseCase) observeExtraction(site string, found, skipped int) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ListingsFound.WithLabelValues(site).Add(float64(found))
	if skipped > 0 {
		uc.metrics.ParseSkips.WithLabelValues(site).Add(float64(skipped))
	}
}
