package schadeautos

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites"
	"github.com/BerkanHRGL/schadeautos/internal/constants"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// Detail URLs end in a numeric stock id, e.g. /nl/voertuig/bmw-320i/184739.
var stockIDPattern = regexp.MustCompile(`/(\d+)/?$`)

var errMissing = errors.New("required field missing")

func (a *Adapter) ExtractListings(rawPage string) ([]domain.ScrapedListing, int) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPage))
	if err != nil {
		a.logger.Warn("failed to build document from page", port.Fields{"site": a.Site(), "error": err.Error()})
		return nil, 0
	}

	var (
		listings []domain.ScrapedListing
		skipped  int
	)

	doc.Find("div.vehicle-card").Each(func(_ int, item *goquery.Selection) {
		listing, err := a.extractItem(item)
		if err != nil {
			skipped++
			a.logger.Debug("skipping unparsable listing item", port.Fields{"site": a.Site(), "reason": err.Error()})
			return
		}
		listings = append(listings, listing)
	})

	return listings, skipped
}

func (a *Adapter) extractItem(item *goquery.Selection) (domain.ScrapedListing, error) {
	title := strings.TrimSpace(item.Find("h2.vehicle-card__title").Text())
	if title == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "title", Err: errMissing}
	}

	href, ok := item.Find("a.vehicle-card__link").Attr("href")
	if !ok || href == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "url", Err: errMissing}
	}
	url := href
	if strings.HasPrefix(href, "/") {
		url = baseURL + href
	}

	match := stockIDPattern.FindStringSubmatch(strings.TrimSuffix(href, "/"))
	if match == nil {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "external_id", Err: errMissing}
	}

	specs := strings.TrimSpace(item.Find("div.vehicle-card__specs").Text())
	damage := strings.TrimSpace(item.Find("span.vehicle-card__damage").Text())
	make, model := sites.ExtractMakeModel(title)

	listing := domain.ScrapedListing{
		SourceWebsite:     constants.SiteSchadeautos,
		ExternalID:        match[1],
		URL:               url,
		Title:             title,
		Make:              make,
		Model:             model,
		Price:             sites.CleanPrice(item.Find("span.vehicle-card__price").Text()),
		Mileage:           sites.ExtractMileage(specs),
		Year:              sites.ExtractYear(specs),
		FuelType:          strings.TrimSpace(item.Find("span.vehicle-card__fuel").Text()),
		Location:          strings.TrimSpace(item.Find("span.vehicle-card__location").Text()),
		DamageDescription: damage,
	}

	if src, ok := item.Find("img.vehicle-card__image").Attr("src"); ok && src != "" {
		listing.Images = []string{src}
	}

	return listing, nil
}

func (a *Adapter) HasNextPage(rawPage string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPage))
	if err != nil {
		return false
	}
	return doc.Find("a.pagination__next:not(.pagination__next--disabled)").Length() > 0
}
