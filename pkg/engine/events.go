package engine

import (
	"context"

	"github.com/nightdial/sunrise-engine/pkg/state"
)

// EventType identifies the engine notification being emitted.
type EventType string

const (
	EventFearChange      EventType = "fear.state_changed"
	EventHealthChange    EventType = "health.state_changed"
	EventCommandFeedback EventType = "command.feedback"
	EventNight           EventType = "night.event"
	EventSessionEnded    EventType = "session.ended"

	// EventNarration carries a rendered narration line back from the
	// narration worker.
	EventNarration EventType = "narration.line"
)

// Event is the notification fanned out to audio/narration/HUD
// subscribers. The engine emits these fire-and-forget; it never waits on
// or retries a subscriber. Interrupt tells narration subscribers this
// event may preempt an in-progress lower-priority line.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`

	// "state", "damage" or "heal"; selects audio/narration cues.
	ChangeType string `json:"change_type,omitempty"`

	FearLevel      float64           `json:"fear_level,omitempty"`
	NewFearState   state.FearState   `json:"new_fear_state,omitempty"`
	HealthLevel    float64           `json:"health_level,omitempty"`
	NewHealthState state.HealthState `json:"new_health_state,omitempty"`

	Command string `json:"command,omitempty"`
	Success bool   `json:"success,omitempty"`

	EventName string `json:"event_name,omitempty"` // night-event identifier
	Interrupt bool   `json:"interrupt,omitempty"`

	Data  map[string]any `json:"data,omitempty"`
	State state.Snapshot `json:"game_state"`
}

// Sink receives engine events. Implementations must treat the event as
// read-only; the embedded snapshot is already a deep copy.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Publish(ctx context.Context, event Event) error { return f(ctx, event) }
