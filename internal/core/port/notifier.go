package port

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// NotifierPort hands notification events to the external delivery system.
// A rejection surfaces as *domain.NotifierError; the event is logged and
// dropped for the cycle, delivery retries are not this core's concern.
type NotifierPort interface {
	Enqueue(ctx context.Context, event domain.NotificationEvent) error
	EnqueueDigest(ctx context.Context, digest domain.DigestEvent) error
}
