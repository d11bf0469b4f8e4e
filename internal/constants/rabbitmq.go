package constants

// RabbitMQ topology for the notifier bridge.
const (
	NotificationsExchange = "notifications_exchange"

	RoutingKeyMatchEvents  = "notifications.match"
	RoutingKeyDigestEvents = "notifications.digest"
)
