// Package rabbitmq bridges notification events to the delivery system's
// exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BerkanHRGL/schadeautos/internal/contracts"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/pkg/rabbitmq/rabbitmq_producer"
)

const publishTimeout = 10 * time.Second

// matchEventDTO matches schemas/events/notification-match/v1.json.
type matchEventDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	ListingID   string `json:"listing_id"`
	MatchReason string `json:"match_reason"`
	Frequency   string `json:"frequency"`
	OccurredAt  string `json:"occurred_at"`
}

// digestEventDTO matches schemas/events/notification-digest/v1.json.
type digestEventDTO struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	ListingIDs []string `json:"listing_ids"`
	Frequency  string   `json:"frequency"`
	FlushedAt  string   `json:"flushed_at"`
}

// NotifierAdapter publishes match and digest events. Every body is validated
// against its schema first, so a contract break can never reach the broker.
type NotifierAdapter struct {
	producer   *rabbitmq_producer.Publisher
	matchKey   string
	digestKey  string
}

func NewNotifierAdapter(producer *rabbitmq_producer.Publisher, matchKey, digestKey string) (*NotifierAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if matchKey == "" || digestKey == "" {
		return nil, fmt.Errorf("routing keys cannot be empty")
	}
	return &NotifierAdapter{producer: producer, matchKey: matchKey, digestKey: digestKey}, nil
}

func (a *NotifierAdapter) Enqueue(ctx context.Context, event domain.NotificationEvent) error {
	dto := matchEventDTO{
		ID:          event.ID.String(),
		UserID:      event.UserID.String(),
		ListingID:   event.ListingID.String(),
		MatchReason: event.MatchReason,
		Frequency:   string(event.Frequency),
		OccurredAt:  event.OccurredAt.UTC().Format(time.RFC3339),
	}
	return a.publish(ctx, contracts.EventListingMatch, a.matchKey, dto)
}

func (a *NotifierAdapter) EnqueueDigest(ctx context.Context, digest domain.DigestEvent) error {
	listingIDs := make([]string, len(digest.ListingIDs))
	for i, id := range digest.ListingIDs {
		listingIDs[i] = id.String()
	}
	dto := digestEventDTO{
		ID:         digest.ID.String(),
		UserID:     digest.UserID.String(),
		ListingIDs: listingIDs,
		Frequency:  string(digest.Frequency),
		FlushedAt:  digest.FlushedAt.UTC().Format(time.RFC3339),
	}
	return a.publish(ctx, contracts.EventListingDigest, a.digestKey, dto)
}

func (a *NotifierAdapter) publish(ctx context.Context, eventType, routingKey string, dto interface{}) error {
	body, err := json.Marshal(dto)
	if err != nil {
		return &domain.NotifierError{Reason: fmt.Sprintf("marshaling %s: %v", eventType, err)}
	}

	if err := contracts.ValidateEvent(eventType, contracts.EventVersion, body); err != nil {
		return &domain.NotifierError{Reason: fmt.Sprintf("validating %s: %v", eventType, err)}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    eventType,
			"event-version": contracts.EventVersion,
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		return &domain.NotifierError{Reason: fmt.Sprintf("publishing %s: %v", eventType, err)}
	}
	return nil
}
