package usecases_port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// CrawlSitePort executes one full scrape cycle for one site: fetch pages,
// extract, classify, dedup and match, then finalize the ScrapeRun record.
type CrawlSitePort interface {
	Execute(ctx context.Context, site string) (domain.ScrapeRun, error)
}
