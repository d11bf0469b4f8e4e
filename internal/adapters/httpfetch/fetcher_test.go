package httpfetch

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/metrics"
)

func newTestFetcher(t *testing.T, transport http.RoundTripper, maxRetries int) *Fetcher {
	t.Helper()
	f, err := NewFetcher(Config{
		AllowedDomain:   "cars.example.com",
		RequestTimeout:  time.Second,
		MaxRetries:      maxRetries,
		RetryBackoff:    time.Millisecond,
		RetryBackoffMax: 5 * time.Millisecond,
		Transport:       transport,
		Metrics:         metrics.New(),
	})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	return f
}

func TestFetchSuccess(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://cars.example.com/list",
		httpmock.NewStringResponder(http.StatusOK, "<html>ok</html>"))

	f := newTestFetcher(t, transport, 2)

	body, err := f.Fetch(context.Background(), "https://cars.example.com/list")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Fatalf("body = %q", body)
	}
}

func TestFetchRetriesTransientThenSucceeds(t *testing.T) {
	transport := httpmock.NewMockTransport()
	calls := 0
	transport.RegisterResponder(http.MethodGet, "https://cars.example.com/list",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls <= 2 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, "boom"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, "recovered"), nil
		})

	f := newTestFetcher(t, transport, 3)

	body, err := f.Fetch(context.Background(), "https://cars.example.com/list")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "recovered" {
		t.Fatalf("body = %q", body)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	transport := httpmock.NewMockTransport()
	calls := 0
	transport.RegisterResponder(http.MethodGet, "https://cars.example.com/list",
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(http.StatusServiceUnavailable, "down"), nil
		})

	f := newTestFetcher(t, transport, 2)

	_, err := f.Fetch(context.Background(), "https://cars.example.com/list")
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *domain.FetchError", err)
	}
	if fetchErr.Kind != domain.FetchServerError {
		t.Fatalf("kind = %q, want %q", fetchErr.Kind, domain.FetchServerError)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	transport := httpmock.NewMockTransport()
	calls := 0
	transport.RegisterResponder(http.MethodGet, "https://cars.example.com/gone",
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(http.StatusNotFound, "nope"), nil
		})

	f := newTestFetcher(t, transport, 5)

	_, err := f.Fetch(context.Background(), "https://cars.example.com/gone")
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *domain.FetchError", err)
	}
	if fetchErr.Kind != domain.FetchNotFound {
		t.Fatalf("kind = %q, want %q", fetchErr.Kind, domain.FetchNotFound)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retries for 404)", calls)
	}
}

func TestFetchHonorsCancelledContext(t *testing.T) {
	transport := httpmock.NewMockTransport()
	f := newTestFetcher(t, transport, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "https://cars.example.com/list")
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *domain.FetchError", err)
	}
	if fetchErr.Kind != domain.FetchTimeout {
		t.Fatalf("kind = %q, want %q", fetchErr.Kind, domain.FetchTimeout)
	}
}

func TestBackoffIsCapped(t *testing.T) {
	f := newTestFetcher(t, httpmock.NewMockTransport(), 2)

	if got := f.backoff(20); got > f.cfg.RetryBackoffMax {
		t.Fatalf("backoff(20) = %v exceeds cap %v", got, f.cfg.RetryBackoffMax)
	}
	if got := f.backoff(1); got != 2*f.cfg.RetryBackoff {
		t.Fatalf("backoff(1) = %v, want %v", got, 2*f.cfg.RetryBackoff)
	}
}
