package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published outside the engine's own event list.
const (
	// TypeReviewsDue announces that a learner has reviews waiting.
	TypeReviewsDue = "reviews.due"
	// TypeProgressPrefix prefixes engine event types, e.g. "progress.level_up".
	TypeProgressPrefix = "progress."
)

// Event is the envelope carried through the emitter.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`
	// Type identifies the payload shape
	Type string `json:"type"`
	// ProfileID is the learner the event concerns
	ProfileID uuid.UUID `json:"profile_id"`
	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`
	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the specified type and payload.
func NewEvent(eventType string, profileID uuid.UUID, payload interface{}, now time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		ProfileID: profileID,
		Payload:   payloadBytes,
		CreatedAt: now,
	}, nil
}

// ReviewsDuePayload is the payload of TypeReviewsDue.
type ReviewsDuePayload struct {
	DueCount int    `json:"due_count"`
	LocalDay string `json:"local_day"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
