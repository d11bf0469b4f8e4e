package port

import "context"

// FetcherPort retrieves a single URL on behalf of a site adapter. The
// implementation enforces the host's politeness policy and retries transient
// failures with backoff; exhaustion surfaces as a *domain.FetchError.
type FetcherPort interface {
	Fetch(ctx context.Context, url string) (string, error)
}
