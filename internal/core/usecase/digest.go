package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/contextkeys"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

type bucketKey struct {
	userID    uuid.UUID
	frequency domain.NotificationFrequency
}

// DigestBuckets accumulates daily and weekly matches per user between
// flushes. Flushing is driven externally (REST trigger or cron), not by
// this engine's scheduler.
type DigestBuckets struct {
	notifier port.NotifierPort
	clock    port.ClockPort

	mu      sync.Mutex
	buckets map[bucketKey][]uuid.UUID
}

func NewDigestBuckets(notifier port.NotifierPort, clock port.ClockPort) *DigestBuckets {
	return &DigestBuckets{
		notifier: notifier,
		clock:    clock,
		buckets:  make(map[bucketKey][]uuid.UUID),
	}
}

// Add records a matched listing for a user's next digest. Duplicate listing
// ids within one accumulation window collapse to a single entry.
func (d *DigestBuckets) Add(userID uuid.UUID, frequency domain.NotificationFrequency, listingID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := bucketKey{userID: userID, frequency: frequency}
	for _, id := range d.buckets[key] {
		if id == listingID {
			return
		}
	}
	d.buckets[key] = append(d.buckets[key], listingID)
}

// Flush drains every bucket of the given frequency and hands one DigestEvent
// per user to the notifier. A rejected digest is logged and dropped; its
// listings are not restored to the bucket.
func (d *DigestBuckets) Flush(ctx context.Context, frequency domain.NotificationFrequency) (int, error) {
	drained := d.drain(frequency)
	logger := contextkeys.LoggerFromContext(ctx)

	flushed := 0
	for key, listingIDs := range drained {
		event := domain.DigestEvent{
			ID:         uuid.New(),
			UserID:     key.userID,
			ListingIDs: listingIDs,
			Frequency:  frequency,
			FlushedAt:  d.clock.Now(),
		}
		if err := d.notifier.EnqueueDigest(ctx, event); err != nil {
			logger.Error("digest rejected by notifier", err, port.Fields{
				"user_id":  key.userID.String(),
				"listings": len(listingIDs),
			})
			continue
		}
		flushed++
	}
	return flushed, nil
}

// Size reports how many users currently have a pending bucket of the given
// frequency.
func (d *DigestBuckets) Size(frequency domain.NotificationFrequency) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	for key := range d.buckets {
		if key.frequency == frequency {
			count++
		}
	}
	return count
}

func (d *DigestBuckets) drain(frequency domain.NotificationFrequency) map[bucketKey][]uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	drained := make(map[bucketKey][]uuid.UUID)
	for key, ids := range d.buckets {
		if key.frequency != frequency {
			continue
		}
		drained[key] = ids
		delete(d.buckets, key)
	}
	return drained
}
