// Package queue defines the narration cue model shared by the API and
// the narration worker.
package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CueType identifies what kind of narration a cue asks for
type CueType string

const (
	// CueFeedback narrates the outcome of a player command
	CueFeedback CueType = "feedback"

	// CueTransition narrates a fear or health state change
	CueTransition CueType = "transition"

	// CueNightEvent narrates an ambient scare
	CueNightEvent CueType = "night_event"

	// CueTerminal narrates the end of the night
	CueTerminal CueType = "terminal"
)

// Cue is one unit of pending narration. Interrupt cues preempt
// whatever line the renderer is currently speaking.
type Cue struct {
	CueID     string    `json:"cue_id"`
	Type      CueType   `json:"type"`
	SessionID uuid.UUID `json:"session_id"`

	// Text is the raw line to render. Transition cues may leave it
	// empty and let the renderer phrase the state change.
	Text      string `json:"text,omitempty"`
	FearState string `json:"fear_state,omitempty"`
	HealthSt  string `json:"health_state,omitempty"`
	Location  string `json:"location,omitempty"`
	Interrupt bool   `json:"interrupt,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// MarshalJSON serializes the cue to JSON for Redis storage
func (c *Cue) MarshalJSON() ([]byte, error) {
	type Alias Cue
	return json.Marshal(&struct {
		SessionID string `json:"session_id"`
		*Alias
	}{
		SessionID: c.SessionID.String(),
		Alias:     (*Alias)(c),
	})
}

// UnmarshalJSON deserializes the cue from JSON in Redis
func (c *Cue) UnmarshalJSON(data []byte) error {
	type Alias Cue
	aux := &struct {
		SessionID string `json:"session_id"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	sessionID, err := uuid.Parse(aux.SessionID)
	if err != nil {
		return err
	}

	c.SessionID = sessionID
	return nil
}

// ToJSON converts the cue to JSON bytes for Redis
func (c *Cue) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// FromJSON parses a cue from JSON bytes
func FromJSON(data []byte) (*Cue, error) {
	var c Cue
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
