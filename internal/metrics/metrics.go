package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors for the scrape engine. All
// collectors live on a dedicated registry so tests never trip over global
// double registration.
type Metrics struct {
	Registry *prometheus.Registry

	PagesFetched    *prometheus.CounterVec
	PagesFailed     *prometheus.CounterVec
	FetchRetries    prometheus.Counter
	FetchErrors     *prometheus.CounterVec
	ListingsFound   *prometheus.CounterVec
	ListingsNew     *prometheus.CounterVec
	ListingsUpdated *prometheus.CounterVec
	ParseSkips      *prometheus.CounterVec
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
}

// New constructs and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_pages_fetched_total",
			Help: "Result pages fetched successfully.",
		}, []string{"site"}),
		PagesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_pages_failed_total",
			Help: "Result pages abandoned after the retry ceiling.",
		}, []string{"site"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_fetch_retries_total",
			Help: "Retry attempts scheduled by the fetch pipeline.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_fetch_errors_total",
			Help: "Fetch errors by type.",
		}, []string{"error_type"}),
		ListingsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_listings_found_total",
			Help: "Listings extracted from result pages.",
		}, []string{"site"}),
		ListingsNew: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_listings_new_total",
			Help: "Listings inserted as new records.",
		}, []string{"site"}),
		ListingsUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_listings_updated_total",
			Help: "Listings updated on re-observation.",
		}, []string{"site"}),
		ParseSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_parse_skips_total",
			Help: "Listing items skipped because of parse failures.",
		}, []string{"site"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_runs_total",
			Help: "Scrape runs by final status.",
		}, []string{"site", "status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Wall-clock duration of complete scrape runs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	registry.MustRegister(
		m.PagesFetched, m.PagesFailed, m.FetchRetries, m.FetchErrors,
		m.ListingsFound, m.ListingsNew, m.ListingsUpdated, m.ParseSkips,
		m.RunsTotal, m.RunDuration,
	)

	return m
}

// ObserveRun records a finished run's status and duration.
func (m *Metrics) ObserveRun(site, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(site, status).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// IncFetchError counts one fetch error by type.
func (m *Metrics) IncFetchError(errorType string) {
	if m == nil {
		return
	}
	m.FetchErrors.WithLabelValues(errorType).Inc()
}

// IncRetry counts one scheduled retry.
func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.FetchRetries.Inc()
}
