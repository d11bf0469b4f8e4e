package marktplaats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/BerkanHRGL/schadeautos/internal/adapters/sites"
	"github.com/BerkanHRGL/schadeautos/internal/constants"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// externalIDPattern matches the ad id embedded in listing URLs,
// e.g. /v/auto-s/bmw/m2094857261-bmw-3-serie.
var externalIDPattern = regexp.MustCompile(`/(m\d+)-`)

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

	doc.Find("li.hz-Listing").Each(func(_ int, item *goquery.Selection) {
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
	title := strings.TrimSpace(item.Find("h3.hz-Listing-title").Text())
	if title == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "title", Err: errMissing}
	}

	href, ok := item.Find("a.hz-Listing-coverLink").Attr("href")
	if !ok || href == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "url", Err: errMissing}
	}
	url := href
	if strings.HasPrefix(href, "/") {
		url = baseURL + href
	}

	externalID := externalIDFromURL(href)
	if externalID == "" {
		return domain.ScrapedListing{}, &domain.ParseError{Site: a.Site(), Field: "external_id", Err: errMissing}
	}

	description := strings.TrimSpace(item.Find("p.hz-Listing-description").Text())
	attributes := strings.TrimSpace(item.Find("span.hz-Listing-attributes").Text())
	make, model := sites.ExtractMakeModel(title)

	listing := domain.ScrapedListing{
		SourceWebsite: constants.SiteMarktplaats,
		ExternalID:    externalID,
		URL:           url,
		Title:         title,
		Make:          make,
		Model:         model,
		Price:         sites.CleanPrice(item.Find("span.hz-Listing-price").Text()),
		Mileage:       sites.ExtractMileage(attributes),
		Year:          sites.ExtractYear(attributes),
		Location:      strings.TrimSpace(item.Find("span.hz-Listing-distance-label").Text()),
		Description:   description,
	}

	if src, ok := item.Find("img.hz-Listing-image-item").Attr("src"); ok && src != "" {
		listing.Images = []string{src}
	}
	if seller := strings.TrimSpace(item.Find("span.hz-Listing-seller-name").Text()); seller != "" {
		listing.ContactInfo = map[string]string{"seller": seller}
	}

	return listing, nil
}

func (a *Adapter) HasNextPage(rawPage string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPage))
	if err != nil {
		return false
	}
	return doc.Find("a[aria-label='Volgende pagina']").Length() > 0
}

func externalIDFromURL(href string) string {
	match := externalIDPattern.FindStringSubmatch(href)
	if match == nil {
		return ""
	}
	return match[1]
}

var errMissing = fmt.Errorf("required field missing")
