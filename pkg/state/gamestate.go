// Package state holds the mutable session state for a night of Survive
// Until Sunrise: fear, health, inventory, the game clock and the command
// log. All mutation goes through the methods here; consumers only ever
// see deep snapshots.
package state

import (
	"time"

	"github.com/google/uuid"
)

// FearState is the discretized fear bucket used to gate notifications.
type FearState string

const (
	FearCalm        FearState = "calm"
	FearNervous     FearState = "nervous"
	FearScared      FearState = "scared"
	FearTerrified   FearState = "terrified"
	FearPanicked    FearState = "panicked"
	FearOverwhelmed FearState = "overwhelmed"
)

// HealthState is the discretized health bucket.
type HealthState string

const (
	HealthExcellent HealthState = "excellent"
	HealthGood      HealthState = "good"
	HealthInjured   HealthState = "injured"
	HealthWounded   HealthState = "wounded"
	HealthCritical  HealthState = "critical"
	HealthDying     HealthState = "dying"
)

// Outcome marks a finished session.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeSurvived Outcome = "survived"
	OutcomeDied     Outcome = "died"
)

// CommandRecord is one entry in the append-only command log.
type CommandRecord struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

// GameState is the single mutable entity for a play session.
type GameState struct {
	ID             uuid.UUID       `json:"id"`
	CurrentTime    string          `json:"current_time"`
	FearLevel      float64         `json:"fear_level"`
	Health         float64         `json:"health"`
	IsAlive        bool            `json:"is_alive"`
	Outcome        Outcome         `json:"outcome,omitempty"`
	Location       string          `json:"location,omitempty"`
	Inventory      []Item          `json:"inventory"`
	CommandsIssued []CommandRecord `json:"commands_issued,omitempty"`
}

// NewGameState starts a fresh session at 23:00, unafraid and unharmed.
func NewGameState() *GameState {
	return &GameState{
		ID:          uuid.New(),
		CurrentTime: NightStart,
		FearLevel:   0,
		Health:      100,
		IsAlive:     true,
		Location:    "hallway",
		Inventory:   make([]Item, 0),
	}
}

func clampLevel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DiscretizeFear maps a fear level to its bucket.
// Thresholds: 10 / 25 / 50 / 75 / 90.
func DiscretizeFear(level float64) FearState {
	switch {
	case level >= 90:
		return FearOverwhelmed
	case level >= 75:
		return FearPanicked
	case level >= 50:
		return FearTerrified
	case level >= 25:
		return FearScared
	case level >= 10:
		return FearNervous
	default:
		return FearCalm
	}
}

// DiscretizeHealth maps a health level to its bucket.
// Thresholds: 90 / 75 / 50 / 25 / 10.
func DiscretizeHealth(level float64) HealthState {
	switch {
	case level >= 90:
		return HealthExcellent
	case level >= 75:
		return HealthGood
	case level >= 50:
		return HealthInjured
	case level >= 25:
		return HealthWounded
	case level >= 10:
		return HealthCritical
	default:
		return HealthDying
	}
}

// FearState returns the current fear bucket.
func (gs *GameState) FearState() FearState { return DiscretizeFear(gs.FearLevel) }

// HealthState returns the current health bucket.
func (gs *GameState) HealthState() HealthState { return DiscretizeHealth(gs.Health) }

// FearChange describes the result of an UpdateFear call.
type FearChange struct {
	Level      float64
	State      FearState
	Transition bool // the discretized bucket changed
}

// UpdateFear adjusts fear by delta, clamped to [0,100]. Dead sessions do
// not mutate. Transition is only set when the bucket changes, so callers
// can gate notifications on it.
func (gs *GameState) UpdateFear(delta float64) FearChange {
	if !gs.IsAlive {
		return FearChange{Level: gs.FearLevel, State: gs.FearState()}
	}
	before := gs.FearState()
	gs.FearLevel = clampLevel(gs.FearLevel + delta)
	after := gs.FearState()
	return FearChange{
		Level:      gs.FearLevel,
		State:      after,
		Transition: before != after,
	}
}

// HealthChange describes the result of an UpdateHealth call.
type HealthChange struct {
	Level      float64
	State      HealthState
	Transition bool
	Died       bool   // this call brought health to zero
	ChangeType string // "damage" or "heal"
}

// UpdateHealth adjusts health by delta, clamped to [0,100]. Reaching zero
// kills the session irreversibly; later calls are no-ops.
func (gs *GameState) UpdateHealth(delta float64) HealthChange {
	if !gs.IsAlive {
		return HealthChange{Level: gs.Health, State: gs.HealthState()}
	}
	before := gs.HealthState()
	gs.Health = clampLevel(gs.Health + delta)
	after := gs.HealthState()

	change := HealthChange{
		Level:      gs.Health,
		State:      after,
		Transition: before != after,
		ChangeType: "heal",
	}
	if delta < 0 {
		change.ChangeType = "damage"
	}
	if gs.Health <= 0 {
		gs.IsAlive = false
		gs.Outcome = OutcomeDied
		change.Died = true
	}
	return change
}

// Kill ends the session from a fatal event regardless of remaining health.
func (gs *GameState) Kill() {
	if !gs.IsAlive {
		return
	}
	gs.Health = 0
	gs.IsAlive = false
	gs.Outcome = OutcomeDied
}

// MarkSurvived records the victory terminal condition. It has no effect
// on a dead session.
func (gs *GameState) MarkSurvived() {
	if !gs.IsAlive || gs.Outcome != OutcomeNone {
		return
	}
	gs.Outcome = OutcomeSurvived
}

// Ended reports whether either terminal condition has fired.
func (gs *GameState) Ended() bool {
	return !gs.IsAlive || gs.Outcome != OutcomeNone
}

// SetLocation moves the player.
func (gs *GameState) SetLocation(location string) {
	if location == "" || !gs.IsAlive {
		return
	}
	gs.Location = location
}

// RecordCommand appends to the command log. Invalid and unrecognized
// commands are recorded too; only application to state is gated.
func (gs *GameState) RecordCommand(command string, at time.Time) {
	gs.CommandsIssued = append(gs.CommandsIssued, CommandRecord{
		Command:   command,
		Timestamp: at,
	})
}

// Snapshot is a deep, read-only copy of the session handed to
// subscribers. Mutating a snapshot never touches the live state.
type Snapshot struct {
	ID             uuid.UUID       `json:"id"`
	CurrentTime    string          `json:"current_time"`
	FearLevel      float64         `json:"fear_level"`
	FearState      FearState       `json:"fear_state"`
	Health         float64         `json:"health"`
	HealthState    HealthState     `json:"health_state"`
	IsAlive        bool            `json:"is_alive"`
	Outcome        Outcome         `json:"outcome,omitempty"`
	Location       string          `json:"location,omitempty"`
	Inventory      []Item          `json:"inventory"`
	CommandsIssued []CommandRecord `json:"commands_issued,omitempty"`
}

// Snapshot returns a deep copy of the current state.
func (gs *GameState) Snapshot() Snapshot {
	inv := make([]Item, 0, len(gs.Inventory))
	for idx := range gs.Inventory {
		inv = append(inv, gs.Inventory[idx].clone())
	}
	log := make([]CommandRecord, len(gs.CommandsIssued))
	copy(log, gs.CommandsIssued)

	return Snapshot{
		ID:             gs.ID,
		CurrentTime:    gs.CurrentTime,
		FearLevel:      gs.FearLevel,
		FearState:      gs.FearState(),
		Health:         gs.Health,
		HealthState:    gs.HealthState(),
		IsAlive:        gs.IsAlive,
		Outcome:        gs.Outcome,
		Location:       gs.Location,
		Inventory:      inv,
		CommandsIssued: log,
	}
}
