// Package publisher delivers night lifecycle events to the outside world.
package publisher

import (
	"context"

	"github.com/mcdev12/dominonight/go/internal/events"
	"github.com/rs/zerolog/log"
)

// Publisher sends one event. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event events.OutboundEvent) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event events.OutboundEvent) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Str("account_id", event.AccountID).
		Str("night_id", event.NightID).
		RawJSON("payload", event.Payload).
		Msg("event")
	return nil
}

func (LogPublisher) Close() error {
	return nil
}
