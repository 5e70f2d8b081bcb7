package events

import (
	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/metrics"
)

// AllEventTypes in publication order.
var AllEventTypes = []string{
	EventBookingCreated,
	EventBookingAccepted,
	EventBookingCompleted,
	EventBookingCancelled,
	EventBookingRated,
	EventUserVerified,
}

// AttachObservers subscribes the cross-cutting consumers to every event
// type: an audit log line and a per-type counter. Domain consumers
// subscribe separately.
func AttachObservers(bus *EventBus, logger *zerolog.Logger) {
	audit := logger.With().Str("component", "audit").Logger()

	for _, eventType := range AllEventTypes {
		et := eventType
		bus.Subscribe(et, func(event *Event) error {
			entry := audit.Info().Str("event", et).Time("at", event.CreatedAt)
			if len(event.Payload) > 0 {
				entry = entry.RawJSON("payload", event.Payload)
			}
			entry.Msg("domain event")
			metrics.IncEvent(et)
			return nil
		})
	}
}
