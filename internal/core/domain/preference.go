package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationFrequency controls how matches are delivered to a user.
type NotificationFrequency string

const (
	FrequencyInstant NotificationFrequency = "instant"
	FrequencyDaily   NotificationFrequency = "daily"
	FrequencyWeekly  NotificationFrequency = "weekly"
)

// UserPreference is a saved search filter. It is consumed by this engine,
// not owned by it. A nil bound means unbounded.
type UserPreference struct {
	ID     uuid.UUID
	UserID uuid.UUID

	MinPrice   *float64
	MaxPrice   *float64
	MaxMileage *int
	MinYear    *int
	MaxYear    *int

	PreferredMakes     []string
	PreferredFuelTypes []string

	MaxDistanceKm *int

	Frequency    NotificationFrequency
	EmailEnabled bool
}

// NotificationEvent is emitted when a listing matches a preference. It is
// handed to the external notifier; delivery mechanics live outside this core.
type NotificationEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ListingID   uuid.UUID
	MatchReason string
	Frequency   NotificationFrequency
	OccurredAt  time.Time
}

// DigestEvent is the flushed form of accumulated daily/weekly matches for
// one user.
type DigestEvent struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ListingIDs []uuid.UUID
	Frequency  NotificationFrequency
	FlushedAt  time.Time
}
