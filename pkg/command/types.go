package command

import (
	"time"

	"github.com/nightdial/sunrise-engine/pkg/state"
)

// Action is a canonical command identifier, distinct from any alias.
type Action string

// ActionUnknown is returned when no strategy produced a usable match.
const ActionUnknown Action = "unknown"

// Category groups actions for validation and confidence boosting.
type Category string

const (
	CategoryDefensive   Category = "defensive"
	CategoryMovement    Category = "movement"
	CategoryInteraction Category = "interaction"
	CategoryTool        Category = "tool"
	CategoryPerception  Category = "perception"
	CategoryPassive     Category = "passive"
	CategoryMeta        Category = "meta"
	CategoryInventory   Category = "inventory"
)

// MatchType identifies which parsing strategy produced a result.
type MatchType string

const (
	MatchExact        MatchType = "exact"
	MatchAlias        MatchType = "alias"
	MatchPartial      MatchType = "partial"
	MatchPartialAlias MatchType = "partial-alias"
	MatchContextual   MatchType = "contextual"
	MatchFuzzy        MatchType = "fuzzy"
	MatchError        MatchType = "error"
)

// ErrorKind distinguishes the two expected parse failure modes.
type ErrorKind string

const (
	ErrInvalidInput  ErrorKind = "invalid_input"
	ErrNotRecognized ErrorKind = "not_recognized"
)

// ParseError is an expected, non-panicking parse failure. A bad voice
// transcript must never take the session down.
type ParseError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ParseError) Error() string { return e.Message }

func invalidInput() *ParseError {
	return &ParseError{Kind: ErrInvalidInput, Message: "Invalid input"}
}

func notRecognized() *ParseError {
	return &ParseError{Kind: ErrNotRecognized, Message: "Command not recognized"}
}

// Modifier is an adverb-like refinement extracted from the transcript.
// FearMod scales the fear delta of the resulting action.
type Modifier struct {
	Type    string  `json:"type"`
	Urgency string  `json:"urgency,omitempty"` // "high" or "low"
	Stealth *bool   `json:"stealth,omitempty"`
	FearMod float64 `json:"fear_modifier"`
}

// Result is the parser's verdict on one transcript. Confidence is not a
// calibrated probability; the defensive-context boost can push it above
// 1.0 (max 1.1) and downstream consumers must not assume a [0,1] range.
type Result struct {
	Action          Action        `json:"action"`
	Confidence      float64       `json:"confidence"`
	MatchType       MatchType     `json:"match_type"`
	MatchedAlias    string        `json:"matched_alias,omitempty"`
	Category        Category      `json:"category,omitempty"`
	IsValid         bool          `json:"is_valid"`
	ValidationError string        `json:"validation_error,omitempty"`
	Modifiers       []Modifier    `json:"modifiers,omitempty"`
	ContextReason   string        `json:"context_reason,omitempty"`
	Err             *ParseError   `json:"error,omitempty"`
	OriginalText    string        `json:"original_text"`
	ParsedAt        time.Time     `json:"parsed_at"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// Recognized reports whether a real action was matched.
func (r *Result) Recognized() bool {
	return r.Err == nil && r.Action != ActionUnknown
}

// Context is the immutable game snapshot handed to the parser. The zero
// value is a safe default: no fear, full health, nowhere special, empty
// inventory. The parser never mutates it.
type Context struct {
	FearLevel   float64      `json:"fear_level"`
	Health      float64      `json:"health"`
	Location    string       `json:"location"`
	Inventory   []state.Item `json:"inventory"`
	CurrentTime string       `json:"current_time"`
}

// ContextFromSnapshot builds a parser context from a state snapshot.
func ContextFromSnapshot(snap state.Snapshot) Context {
	return Context{
		FearLevel:   snap.FearLevel,
		Health:      snap.Health,
		Location:    snap.Location,
		Inventory:   snap.Inventory,
		CurrentTime: snap.CurrentTime,
	}
}
