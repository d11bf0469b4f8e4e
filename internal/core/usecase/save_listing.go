// Package usecase holds the application core: crawl orchestration,
// deduplication and preference matching. Use cases depend on ports only.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/BerkanHRGL/schadeautos/internal/contextkeys"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
	usecases_port "github.com/BerkanHRGL/schadeautos/internal/core/port/usecases"
)

const hotCacheSize = 4096

// SaveListingUseCase upserts classified listings by fingerprint. A hot cache
// of recently saved listings short-circuits unchanged re-observations to a
// last-seen touch without a store read.
type SaveListingUseCase struct {
	store port.ListingStorePort
	clock port.ClockPort
	cache *lru.Cache[domain.Fingerprint, domain.Listing]
}

func NewSaveListingUseCase(store port.ListingStorePort, clock port.ClockPort) (*SaveListingUseCase, error) {
	cache, err := lru.New[domain.Fingerprint, domain.Listing](hotCacheSize)
	if err != nil {
		return nil, err
	}
	return &SaveListingUseCase{store: store, clock: clock, cache: cache}, nil
}

func (uc *SaveListingUseCase) Execute(ctx context.Context, listing domain.Listing, fp domain.Fingerprint) (usecases_port.SaveOutcome, error) {
	now := uc.clock.Now()

	if cached, ok := uc.cache.Get(fp); ok && cached.MutableFieldsEqual(listing) {
		if err := uc.store.Touch(ctx, fp, now); err != nil {
			return usecases_port.SaveOutcome{}, err
		}
		cached.LastSeen = now
		uc.cache.Add(fp, cached)
		return usecases_port.SaveOutcome{Listing: cached}, nil
	}

	existing, err := uc.store.FindByFingerprint(ctx, fp)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return uc.insert(ctx, listing, fp, now)
	case err != nil:
		return usecases_port.SaveOutcome{}, err
	}

	return uc.reobserve(ctx, existing, listing, fp)
}

func (uc *SaveListingUseCase) insert(ctx context.Context, listing domain.Listing, fp domain.Fingerprint, now time.Time) (usecases_port.SaveOutcome, error) {
	listing.ID = uuid.New()
	listing.FirstSeen = now
	listing.LastSeen = now
	listing.IsActive = true

	created, err := uc.store.Create(ctx, fp, listing)
	if err == nil {
		uc.cache.Add(fp, created)
		return usecases_port.SaveOutcome{Listing: created, WasNew: true}, nil
	}

	// A concurrent observer inserted the same fingerprint first. The insert
	// loses the race and resolves as a re-observation.
	var conflict *domain.StoreConflictError
	if !errors.As(err, &conflict) {
		return usecases_port.SaveOutcome{}, err
	}
	contextkeys.LoggerFromContext(ctx).Debug("insert conflict, resolving as update",
		port.Fields{"fingerprint": string(fp)})

	existing, err := uc.store.FindByFingerprint(ctx, fp)
	if err != nil {
		return usecases_port.SaveOutcome{}, err
	}
	return uc.reobserve(ctx, existing, listing, fp)
}

func (uc *SaveListingUseCase) reobserve(ctx context.Context, existing, observed domain.Listing, fp domain.Fingerprint) (usecases_port.SaveOutcome, error) {
	now := uc.clock.Now()

	if existing.MutableFieldsEqual(observed) {
		if err := uc.store.Touch(ctx, fp, now); err != nil {
			return usecases_port.SaveOutcome{}, err
		}
		existing.LastSeen = now
		uc.cache.Add(fp, existing)
		return usecases_port.SaveOutcome{Listing: existing}, nil
	}

	merged := mergeObservation(existing, observed)
	merged.LastSeen = now

	updated, err := uc.store.Update(ctx, fp, merged)
	if err != nil {
		return usecases_port.SaveOutcome{}, err
	}
	uc.cache.Add(fp, updated)
	return usecases_port.SaveOutcome{Listing: updated, Changed: true}, nil
}

// mergeObservation carries identity and first-seen from the stored row and
// takes every re-observed field from the fresh scrape.
func mergeObservation(existing, observed domain.Listing) domain.Listing {
	observed.ID = existing.ID
	observed.FirstSeen = existing.FirstSeen
	observed.IsActive = existing.IsActive
	return observed
}
