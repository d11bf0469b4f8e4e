package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
	"github.com/BerkanHRGL/schadeautos/internal/metrics"
)

const resultKey = "fetch_result"

// Config configures one per-host fetcher. Politeness limits come from the
// site adapter's declared policy and are enforced here, not in the adapter.
type Config struct {
	AllowedDomain   string
	Politeness      domain.PolitenessPolicy
	RequestTimeout  time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration

	// Transport overrides the HTTP transport; tests inject a mock here.
	Transport http.RoundTripper

	Metrics *metrics.Metrics
	Logger  port.LoggerPort
}

// Fetcher retrieves pages for a single host through a rate-limited colly
// collector, retrying transient failures with capped exponential backoff.
type Fetcher struct {
	cfg       Config
	collector *colly.Collector
}

// NewFetcher builds the collector with the host's politeness limits.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.AllowedDomain == "" {
		return nil, fmt.Errorf("httpfetch: allowed domain is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.RetryBackoffMax <= 0 {
		cfg.RetryBackoffMax = 10 * time.Second
	}

	parallelism := cfg.Politeness.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	c := colly.NewCollector(
		colly.AllowedDomains(cfg.AllowedDomain),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.RequestTimeout)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  cfg.AllowedDomain,
		Parallelism: parallelism,
		Delay:       cfg.Politeness.MinDelay,
		RandomDelay: cfg.Politeness.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("httpfetch: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	if cfg.Transport != nil {
		c.WithTransport(cfg.Transport)
	}

	c.OnResponse(func(r *colly.Response) {
		if res, ok := r.Ctx.GetAny(resultKey).(*fetchResult); ok {
			res.body = string(r.Body)
			res.statusCode = r.StatusCode
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		res, ok := r.Ctx.GetAny(resultKey).(*fetchResult)
		if !ok {
			return
		}
		res.err = err
		res.statusCode = r.StatusCode
	})

	return &Fetcher{cfg: cfg, collector: c}, nil
}

type fetchResult struct {
	body       string
	statusCode int
	err        error
}

// Fetch retrieves one URL. Transient failures (timeout, connection reset,
// 5xx, 429) are retried up to the ceiling; everything else returns
// immediately as a *domain.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr *domain.FetchError

	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &domain.FetchError{Kind: domain.FetchTimeout, URL: url, Err: err}
		}

		if attempt > 0 {
			f.cfg.Metrics.IncRetry()
			if err := f.waitBackoff(ctx, attempt-1); err != nil {
				return "", &domain.FetchError{Kind: domain.FetchTimeout, URL: url, Err: err}
			}
		}

		body, fetchErr := f.visit(url)
		if fetchErr == nil {
			return body, nil
		}

		f.cfg.Metrics.IncFetchError(string(fetchErr.Kind))
		if !fetchErr.Transient() {
			return "", fetchErr
		}

		lastErr = fetchErr
		if f.cfg.Logger != nil {
			f.cfg.Logger.Warn("Transient fetch failure, will retry", port.Fields{
				"url":     url,
				"kind":    string(fetchErr.Kind),
				"attempt": attempt + 1,
				"max":     f.cfg.MaxRetries + 1,
			})
		}
	}

	return "", lastErr
}

func (f *Fetcher) visit(url string) (string, *domain.FetchError) {
	res := &fetchResult{}
	collyCtx := colly.NewContext()
	collyCtx.Put(resultKey, res)

	// The collector is synchronous: Request returns after the OnResponse or
	// OnError handlers have run.
	if err := f.collector.Request(http.MethodGet, url, nil, collyCtx, nil); err != nil {
		return "", classifyFetchError(err, 0, url)
	}
	if res.err != nil {
		return "", classifyFetchError(res.err, res.statusCode, url)
	}
	return res.body, nil
}

func (f *Fetcher) waitBackoff(ctx context.Context, attempt int) error {
	delay := f.backoff(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns base × 2^attempt capped at the configured maximum.
func (f *Fetcher) backoff(attempt int) time.Duration {
	delay := f.cfg.RetryBackoff
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= f.cfg.RetryBackoffMax {
			return f.cfg.RetryBackoffMax
		}
	}
	if delay > f.cfg.RetryBackoffMax {
		return f.cfg.RetryBackoffMax
	}
	return delay
}

func classifyFetchError(err error, statusCode int, url string) *domain.FetchError {
	switch statusCode {
	case 0:
		// fall through to error inspection
	case http.StatusTooManyRequests:
		return &domain.FetchError{Kind: domain.FetchRateLimited, URL: url, StatusCode: statusCode, Err: err}
	case http.StatusNotFound:
		return &domain.FetchError{Kind: domain.FetchNotFound, URL: url, StatusCode: statusCode, Err: err}
	case http.StatusForbidden:
		return &domain.FetchError{Kind: domain.FetchForbidden, URL: url, StatusCode: statusCode, Err: err}
	default:
		if statusCode >= 500 {
			return &domain.FetchError{Kind: domain.FetchServerError, URL: url, StatusCode: statusCode, Err: err}
		}
		return &domain.FetchError{Kind: domain.FetchOther, URL: url, StatusCode: statusCode, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.FetchError{Kind: domain.FetchTimeout, URL: url, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.FetchError{Kind: domain.FetchTimeout, URL: url, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &domain.FetchError{Kind: domain.FetchConnection, URL: url, Err: err}
	}
	return &domain.FetchError{Kind: domain.FetchOther, URL: url, Err: err}
}
