package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/contextkeys"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// MatchPreferencesUseCase evaluates created or materially updated listings
// against all active saved searches. Only cosmetic-only listings are
// eligible; absent bounds are unbounded; empty preference sets match
// everything.
type MatchPreferencesUseCase struct {
	preferences port.PreferenceStorePort
	notifier    port.NotifierPort
	digests     *DigestBuckets
	clock       port.ClockPort
}

func NewMatchPreferencesUseCase(
	preferences port.PreferenceStorePort,
	notifier port.NotifierPort,
	digests *DigestBuckets,
	clock port.ClockPort,
) *MatchPreferencesUseCase {
	return &MatchPreferencesUseCase{
		preferences: preferences,
		notifier:    notifier,
		digests:     digests,
		clock:       clock,
	}
}

func (uc *MatchPreferencesUseCase) Execute(ctx context.Context, listing domain.Listing) error {
	if !listing.HasCosmeticDamageOnly {
		return nil
	}

	prefs, err := uc.preferences.ListActivePreferences(ctx)
	if err != nil {
		return fmt.Errorf("listing preferences for match: %w", err)
	}

	logger := contextkeys.LoggerFromContext(ctx)

	for _, pref := range prefs {
		reason, ok := evaluate(pref, listing)
		if !ok {
			continue
		}

		if pref.Frequency != domain.FrequencyInstant {
			uc.digests.Add(pref.UserID, pref.Frequency, listing.ID)
			continue
		}

		event := domain.NotificationEvent{
			ID:          uuid.New(),
			UserID:      pref.UserID,
			ListingID:   listing.ID,
			MatchReason: reason,
			Frequency:   pref.Frequency,
			OccurredAt:  uc.clock.Now(),
		}
		if err := uc.notifier.Enqueue(ctx, event); err != nil {
			// The event is dropped for this cycle; delivery retries are the
			// notifier side's concern.
			logger.Error("match event rejected by notifier", err, port.Fields{
				"user_id":    pref.UserID.String(),
				"listing_id": listing.ID.String(),
			})
		}
	}

	return nil
}

// evaluate checks one preference against one listing and builds the
// human-readable match reason from the bounds that were actually set.
func evaluate(pref domain.UserPreference, listing domain.Listing) (string, bool) {
	var reasons []string

	if pref.MinPrice != nil || pref.MaxPrice != nil {
		if listing.Price == nil {
			return "", false
		}
		if pref.MinPrice != nil && *listing.Price < *pref.MinPrice {
			return "", false
		}
		if pref.MaxPrice != nil && *listing.Price > *pref.MaxPrice {
			return "", false
		}
		reasons = append(reasons, fmt.Sprintf("price €%.0f within range", *listing.Price))
	}

	if pref.MaxMileage != nil {
		if listing.Mileage == nil || *listing.Mileage > *pref.MaxMileage {
			return "", false
		}
		reasons = append(reasons, fmt.Sprintf("mileage %d km under %d km", *listing.Mileage, *pref.MaxMileage))
	}

	if pref.MinYear != nil || pref.MaxYear != nil {
		if listing.Year == nil {
			return "", false
		}
		if pref.MinYear != nil && *listing.Year < *pref.MinYear {
			return "", false
		}
		if pref.MaxYear != nil && *listing.Year > *pref.MaxYear {
			return "", false
		}
		reasons = append(reasons, fmt.Sprintf("build year %d within range", *listing.Year))
	}

	if len(pref.PreferredMakes) > 0 {
		if !containsFold(pref.PreferredMakes, listing.Make) {
			return "", false
		}
		reasons = append(reasons, fmt.Sprintf("make %s preferred", listing.Make))
	}

	if len(pref.PreferredFuelTypes) > 0 {
		if !containsFold(pref.PreferredFuelTypes, listing.FuelType) {
			return "", false
		}
		reasons = append(reasons, fmt.Sprintf("fuel type %s preferred", listing.FuelType))
	}

	if len(reasons) == 0 {
		return "cosmetic-only listing matches unrestricted search", true
	}
	return strings.Join(reasons, "; "), true
}

func containsFold(set []string, value string) bool {
	for _, entry := range set {
		if strings.EqualFold(entry, value) {
			return true
		}
	}
	return false
}
