package events

import (
	"context"

	platformevents "resto_admin_backend/platform/events"
	"resto_admin_backend/platform/logger"
)

// InMemoryBus aliases the platform bus so modules only import this package.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the in-process event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// allEventNames lists every admin mutation event this service publishes.
var allEventNames = []string{
	OrderCancelled{}.EventName(),
	OrderReopened{}.EventName(),
	CampaignModerated{}.EventName(),
	RestaurantStatusChanged{}.EventName(),
	TaskGroupCreated{}.EventName(),
	LeadConverted{}.EventName(),
}

// SubscribeObserver attaches one handler to every admin mutation event.
// Used by the composition root for the event log.
func SubscribeObserver(bus Bus, handler Handler) {
	for _, name := range allEventNames {
		bus.Subscribe(name, handler)
	}
}

// NewLogObserver returns a handler that records each event as it fires.
func NewLogObserver(log *logger.Logger) Handler {
	return HandlerFunc(func(_ context.Context, event Event) error {
		log.Info("domain event", "event", event.EventName(), "occurred_at", event.OccurredAt())
		return nil
	})
}
