package rest

import (
	"time"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

type runResponse struct {
	ID              string     `json:"id"`
	Site            string     `json:"site"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
	PagesFetched    int        `json:"pagesFetched"`
	PagesFailed     int        `json:"pagesFailed"`
	ListingsFound   int        `json:"listingsFound"`
	ListingsNew     int        `json:"listingsNew"`
	ListingsUpdated int        `json:"listingsUpdated"`
	ListingsSkipped int        `json:"listingsSkipped"`
	Status          string     `json:"status"`
	LastError       string     `json:"lastError,omitempty"`
}

func toRunResponse(run domain.ScrapeRun) runResponse {
	return runResponse{
		ID:              run.ID.String(),
		Site:            run.Site,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		PagesFetched:    run.PagesFetched,
		PagesFailed:     run.PagesFailed,
		ListingsFound:   run.ListingsFound,
		ListingsNew:     run.ListingsNew,
		ListingsUpdated: run.ListingsUpdated,
		ListingsSkipped: run.ListingsSkipped,
		Status:          string(run.Status),
		LastError:       run.LastError,
	}
}

type listingResponse struct {
	ID                    string            `json:"id"`
	SourceWebsite         string            `json:"sourceWebsite"`
	ExternalID            string            `json:"externalId,omitempty"`
	URL                   string            `json:"url"`
	Title                 string            `json:"title"`
	Make                  string            `json:"make,omitempty"`
	Model                 string            `json:"model,omitempty"`
	Year                  *int              `json:"year,omitempty"`
	Price                 *float64          `json:"price,omitempty"`
	Mileage               *int              `json:"mileage,omitempty"`
	FuelType              string            `json:"fuelType,omitempty"`
	Transmission          string            `json:"transmission,omitempty"`
	Color                 string            `json:"color,omitempty"`
	Location              string            `json:"location,omitempty"`
	Images                []string          `json:"images,omitempty"`
	Description           string            `json:"description,omitempty"`
	DamageDescription     string            `json:"damageDescription,omitempty"`
	DamageKeywords        []string          `json:"damageKeywords,omitempty"`
	HasCosmeticDamageOnly bool              `json:"hasCosmeticDamageOnly"`
	ContactInfo           map[string]string `json:"contactInfo,omitempty"`
	DealRating            string            `json:"dealRating,omitempty"`
	ProfitPercentage      *float64          `json:"profitPercentage,omitempty"`
	FirstSeen             time.Time         `json:"firstSeen"`
	LastSeen              time.Time         `json:"lastSeen"`
	IsActive              bool              `json:"isActive"`
}

func toListingResponse(l domain.Listing) listingResponse {
	return listingResponse{
		ID:                    l.ID.String(),
		SourceWebsite:         l.SourceWebsite,
		ExternalID:            l.ExternalID,
		URL:                   l.URL,
		Title:                 l.Title,
		Make:                  l.Make,
		Model:                 l.Model,
		Year:                  l.Year,
		Price:                 l.Price,
		Mileage:               l.Mileage,
		FuelType:              l.FuelType,
		Transmission:          l.Transmission,
		Color:                 l.Color,
		Location:              l.Location,
		Images:                l.Images,
		Description:           l.Description,
		DamageDescription:     l.DamageDescription,
		DamageKeywords:        l.DamageKeywords,
		HasCosmeticDamageOnly: l.HasCosmeticDamageOnly,
		ContactInfo:           l.ContactInfo,
		DealRating:            l.DealRating,
		ProfitPercentage:      l.ProfitPercentage,
		FirstSeen:             l.FirstSeen,
		LastSeen:              l.LastSeen,
		IsActive:              l.IsActive,
	}
}

type flushResponse struct {
	Frequency string `json:"frequency"`
	Flushed   int    `json:"flushed"`
}
