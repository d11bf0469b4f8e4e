package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing is the canonical marketplace entry as stored by the engine.
type Listing struct {
	ID            uuid.UUID
	SourceWebsite string
	ExternalID    string // site-native id, empty when the site exposes none
	URL           string
	Title         string

	Make         string
	Model        string
	Year         *int
	Price        *float64
	Mileage      *int
	FuelType     string
	Transmission string
	Color        string
	Location     string
	Images       []string

	Description           string
	DamageDescription     string
	DamageKeywords        []string
	HasCosmeticDamageOnly bool

	ContactInfo map[string]string

	DealRating       string
	ProfitPercentage *float64

	FirstSeen time.Time
	LastSeen  time.Time
	IsActive  bool
}

// ScrapedListing is the partial field set an adapter extracts from a page,
// before classification and deduplication.
type ScrapedListing struct {
	SourceWebsite string
	ExternalID    string
	URL           string
	Title         string

	Make         string
	Model        string
	Year         *int
	Price        *float64
	Mileage      *int
	FuelType     string
	Transmission string
	Color        string
	Location     string
	Images       []string

	Description       string
	DamageDescription string

	ContactInfo map[string]string
}

// MutableFieldsEqual reports whether the re-observed fields of other match
// the stored listing. FirstSeen/LastSeen and identity fields are not part
// of the comparison.
func (l Listing) MutableFieldsEqual(other Listing) bool {
	if !floatPtrEqual(l.Price, other.Price) || !intPtrEqual(l.Mileage, other.Mileage) {
		return false
	}
	if l.Description != other.Description || l.DamageDescription != other.DamageDescription {
		return false
	}
	if l.HasCosmeticDamageOnly != other.HasCosmeticDamageOnly {
		return false
	}
	if !stringSliceEqual(l.DamageKeywords, other.DamageKeywords) {
		return false
	}
	if !stringSliceEqual(l.Images, other.Images) {
		return false
	}
	return true
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
