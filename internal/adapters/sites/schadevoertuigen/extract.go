package schadevoertuigen

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites"
	"github.com/BerkanHRGL/schadeautos/internal/constants"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

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

	doc.Find("article.occasion").Each(func(_ int, item *goquery.Selection) {
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
	title := strings.TrimSpace(item.Find("h3.occasion-title").Text())
	if title == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "title", Err: errMissing}
	}

	href, ok := item.Find("a.occasion-link").Attr("href")
	if !ok || href == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "url", Err: errMissing}
	}
	url := href
	if strings.HasPrefix(href, "/") {
		url = baseURL + href
	}

	details := strings.TrimSpace(item.Find("div.occasion-details").Text())
	damage := strings.TrimSpace(item.Find("p.occasion-damage").Text())
	make, model := sites.ExtractMakeModel(title)

	// No site-native ad id exists in this markup; ExternalID stays empty and
	// identity falls back to the content fingerprint.
	listing := domain.ScrapedListing{
		SourceWebsite:     constants.SiteSchadevoertuigen,
		URL:               url,
		Title:             title,
		Make:              make,
		Model:             model,
		Price:             sites.CleanPrice(item.Find("span.occasion-price").Text()),
		Mileage:           sites.ExtractMileage(details),
		Year:              sites.ExtractYear(details),
		Location:          strings.TrimSpace(item.Find("span.occasion-location").Text()),
		DamageDescription: damage,
	}

	if src, ok := item.Find("img.occasion-photo").Attr("src"); ok && src != "" {
		listing.Images = []string{src}
	}

	return listing, nil
}

func (a *Adapter) HasNextPage(rawPage string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPage))
	if err != nil {
		return false
	}
	return doc.Find("ul.paginering a[rel='next']").Length() > 0
}
