package port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// SiteAdapterPort is implemented once per marketplace. An adapter owns URL
// construction and markup knowledge; fetching, politeness and retries are
// the pipeline's concern.
type SiteAdapterPort interface {
	// Site returns the stable identifier of the marketplace, e.g. "marktplaats.nl".
	Site() string

	// FetchPage retrieves the raw content of the given 1-based result page.
	FetchPage(ctx context.Context, page int) (string, error)

	// ExtractListings parses raw page content into partial listings. A parse
	// failure on one item is skipped and counted, never aborts the page.
	ExtractListings(rawPage string) (listings []domain.ScrapedListing, skipped int)

	// HasNextPage reports whether the page links to a further result page.
	HasNextPage(rawPage string) bool

	// Politeness declares the per-host crawl limits the pipeline must enforce.
	Politeness() domain.PolitenessPolicy
}
