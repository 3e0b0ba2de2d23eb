// Package events defines the messages published when a night changes stage.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as the last part of the publish subject
const (
	TypeNightStarted   = "night.started"
	TypeGameWon        = "game.won"
	TypeSetWon         = "set.won"
	TypeTieBreak       = "tiebreak"
	TypeNightCompleted = "night.completed"
	TypeHistoryCleared = "history.cleared"
)

// OutboundEvent is one message ready for a publisher
type OutboundEvent struct {
	ID        uuid.UUID
	AccountID string
	NightID   string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// New marshals payload into an event with a fresh id
func New(accountID, nightID, eventType string, payload any, at time.Time) (OutboundEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return OutboundEvent{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return OutboundEvent{
		ID:        uuid.New(),
		AccountID: accountID,
		NightID:   nightID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: at.UTC(),
	}, nil
}

// Envelope is the JSON body written to the wire
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	AccountID string          `json:"accountId"`
	NightID   string          `json:"nightId,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Envelope wraps the event for publishing
func (e OutboundEvent) Envelope() Envelope {
	return Envelope{
		EventID:   e.ID.String(),
		EventType: e.EventType,
		AccountID: e.AccountID,
		NightID:   e.NightID,
		Timestamp: e.CreatedAt,
		Payload:   json.RawMessage(e.Payload),
	}
}
