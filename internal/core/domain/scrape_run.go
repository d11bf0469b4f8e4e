package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a ScrapeRun.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusDegraded  RunStatus = "degraded"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun records one execution of one site's crawl cycle. It is owned
// exclusively by the dispatching run and becomes immutable once Status
// leaves running.
type ScrapeRun struct {
	ID         uuid.UUID
	Site       string
	StartedAt  time.Time
	FinishedAt *time.Time

	PagesFetched    int
	PagesFailed     int
	ListingsFound   int
	ListingsNew     int
	ListingsUpdated int
	ListingsSkipped int // per-listing parse failures, surfaced for operators

	Status    RunStatus
	LastError string
}

// NewScrapeRun creates a run record in the running state.
func NewScrapeRun(site string, startedAt time.Time) ScrapeRun {
	return ScrapeRun{
		ID:        uuid.New(),
		Site:      site,
		StartedAt: startedAt,
		Status:    RunStatusRunning,
	}
}

// PolitenessPolicy is declared by a site adapter and enforced by the fetch
// pipeline, never by the adapter itself.
type PolitenessPolicy struct {
	MinDelay       time.Duration
	RandomDelay    time.Duration
	Parallelism    int
	MaxPagesPerRun int
}
