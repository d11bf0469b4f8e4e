package usecases_port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// SaveOutcome describes what the deduplicator did with one listing.
type SaveOutcome struct {
	Listing domain.Listing
	WasNew  bool
	Changed bool
}

// SaveListingPort upserts one classified listing by fingerprint.
type SaveListingPort interface {
	Execute(ctx context.Context, listing domain.Listing, fp domain.Fingerprint) (SaveOutcome, error)
}
