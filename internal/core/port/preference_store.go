package port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// PreferenceStorePort exposes the saved user filters this engine evaluates.
// The preference CRUD itself lives in the external API service.
type PreferenceStorePort interface {
	ListActivePreferences(ctx context.Context) ([]domain.UserPreference, error)
}
