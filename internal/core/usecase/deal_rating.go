package usecase

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// Deal ratings relative to the average asking price of comparable
// cosmetic-only listings.
const (
	DealExcellent = "excellent"
	DealGood      = "good"
	DealFair      = "fair"
	DealPoor      = "poor"
)

const comparableSample = 25

// DealRater estimates how far a listing sits under the market price of
// comparable listings already in the store. Listings without price, make or
// comparables stay unrated.
type DealRater struct {
	store port.ListingStorePort
}

func NewDealRater(store port.ListingStorePort) *DealRater {
	return &DealRater{store: store}
}

// Rate fills DealRating and ProfitPercentage in place. Rating failures are
// not worth failing the pipeline over, so lookup errors leave the listing
// unrated and are swallowed.
func (r *DealRater) Rate(ctx context.Context, listing *domain.Listing) {
	if listing.Price == nil || *listing.Price <= 0 || listing.Make == "" || listing.Year == nil {
		return
	}

	minYear := *listing.Year - 1
	maxYear := *listing.Year + 1
	cosmeticOnly := true

	comparables, err := r.store.Query(ctx,
		domain.ListingFilters{
			Make:         listing.Make,
			MinYear:      &minYear,
			MaxYear:      &maxYear,
			CosmeticOnly: &cosmeticOnly,
		},
		domain.ListingSort{Key: domain.SortByFirstSeen, Descending: true},
		domain.Pagination{Limit: comparableSample},
	)
	if err != nil {
		return
	}

	var sum float64
	var count int
	for _, c := range comparables {
		if c.ID == listing.ID || c.Price == nil || *c.Price <= 0 {
			continue
		}
		sum += *c.Price
		count++
	}
	if count < 3 {
		return
	}

	market := sum / float64(count)
	profit := (market - *listing.Price) / *listing.Price * 100

	listing.ProfitPercentage = &profit
	switch {
	case profit >= 30:
		listing.DealRating = DealExcellent
	case profit >= 15:
		listing.DealRating = DealGood
	case profit >= 5:
		listing.DealRating = DealFair
	default:
		listing.DealRating = DealPoor
	}
}
