package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// ListingStorePort is the contract of the external listing store. Insert
// atomicity is delegated to the store's own unique constraint; a conflict
// surfaces as *domain.StoreConflictError and is handled by the deduplicator.
type ListingStorePort interface {
	// FindByFingerprint returns the stored listing for a fingerprint, or
	// domain.ErrListingNotFound.
	FindByFingerprint(ctx context.Context, fp domain.Fingerprint) (domain.Listing, error)

	// Create inserts a new listing under the given fingerprint.
	Create(ctx context.Context, fp domain.Fingerprint, listing domain.Listing) (domain.Listing, error)

	// Update rewrites the mutable fields of an existing listing.
	Update(ctx context.Context, fp domain.Fingerprint, listing domain.Listing) (domain.Listing, error)

	// Touch advances last_seen without rewriting any other field.
	Touch(ctx context.Context, fp domain.Fingerprint, seenAt time.Time) error

	// Query returns listings matching the filters, ordered and paginated.
	Query(ctx context.Context, filters domain.ListingFilters, sort domain.ListingSort, page domain.Pagination) ([]domain.Listing, error)

	// GetByID returns one listing or domain.ErrListingNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Listing, error)
}
