package port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// RunStorePort persists ScrapeRun records for observability.
type RunStorePort interface {
	Create(ctx context.Context, run domain.ScrapeRun) error

	// Update rewrites the run's counters and status. Callers stop updating
	// once the status leaves running.
	Update(ctx context.Context, run domain.ScrapeRun) error

	// Latest returns the most recent run per site, newest first.
	Latest(ctx context.Context) ([]domain.ScrapeRun, error)

	// List returns the most recent runs across all sites, newest first.
	List(ctx context.Context, limit int) ([]domain.ScrapeRun, error)
}
