package usecases_port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// MatchPreferencesPort evaluates a created or materially updated listing
// against every active user preference and dispatches match events.
type MatchPreferencesPort interface {
	Execute(ctx context.Context, listing domain.Listing) error
}
