// Package schadeautos adapts the schadeautos.nl occasion overview to the
// crawl pipeline.
package schadeautos

import (
	"context"
	"fmt"
	"time"

	"github.com/BerkanHRGL/schadeautos/internal/constants"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

const (
	// Host is the crawl target; the fetch pipeline scopes its collector to it.
	Host = "www.schadeautos.nl"

	baseURL    = "https://" + Host
	searchPath = "/nl/zoeken/personenwagens"
)

type Adapter struct {
	fetcher port.FetcherPort
	logger  port.LoggerPort
}

func NewAdapter(fetcher port.FetcherPort, logger port.LoggerPort) *Adapter {
	return &Adapter{fetcher: fetcher, logger: logger}
}

func (a *Adapter) Site() string {
	return constants.SiteSchadeautos
}

func (a *Adapter) FetchPage(ctx context.Context, page int) (string, error) {
	url := baseURL + searchPath
	if page > 1 {
		url = fmt.Sprintf("%s?page=%d", url, page)
	}
	return a.fetcher.Fetch(ctx, url)
}

func (a *Adapter) Politeness() domain.PolitenessPolicy {
	return domain.PolitenessPolicy{
		MinDelay:       3 * time.Second,
		RandomDelay:    2 * time.Second,
		Parallelism:    1,
		MaxPagesPerRun: 15,
	}
}
