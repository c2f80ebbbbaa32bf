// Package engine orchestrates a Survive Until Sunrise session: it runs
// transcripts through the command parser, applies the winning action to
// the game state, and fans notifications out to audio/narration/HUD
// subscribers. All state mutation is serialized through the engine; a
// command is fully applied before the next one is looked at.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/nightdial/sunrise-engine/pkg/command"
	"github.com/nightdial/sunrise-engine/pkg/house"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

// Config carries the engine tunables. Zero values are replaced by the
// defaults from DefaultConfig.
type Config struct {
	// DebounceWindow is the minimum interval between accepted
	// transcripts. A transcript arriving inside the window is dropped,
	// never queued behind or interleaved with the one being processed.
	DebounceWindow time.Duration

	// DebounceFloor is the tightened window applied under sustained
	// command frequency.
	DebounceFloor time.Duration

	// AdaptiveBurst is how many accepted transcripts within
	// AdaptiveInterval switch the debounce to DebounceFloor.
	AdaptiveBurst    int
	AdaptiveInterval time.Duration

	// MinSpeechConfidence rejects transcripts whose recognition
	// confidence falls below it. Zero accepts everything.
	MinSpeechConfidence float64

	// Use carries the item wear configuration.
	Use state.UseOptions

	// AmbientFearPerMinute creeps fear upward as the night passes.
	AmbientFearPerMinute float64

	// NightEventChance is the percent chance a night event fires on
	// each game-hour boundary.
	NightEventChance int

	// MinutesPerTick and TickInterval drive the Run loop: every
	// TickInterval of wall time advances the game clock by
	// MinutesPerTick.
	MinutesPerTick int
	TickInterval   time.Duration

	// House is the room graph the session plays out in.
	House house.Layout

	// Seed fixes the night-event roll sequence; zero seeds from the
	// clock.
	Seed int64
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		DebounceWindow:   time.Second,
		DebounceFloor:    800 * time.Millisecond,
		AdaptiveBurst:    5,
		AdaptiveInterval: 10 * time.Second,
		Use: state.UseOptions{
			DurabilityCost: map[state.ItemType]int{
				state.ItemTool:   2,
				state.ItemLight:  5,
				state.ItemWeapon: 10,
			},
		},
		AmbientFearPerMinute: 0.05,
		NightEventChance:     70,
		MinutesPerTick:       1,
		TickInterval:         2 * time.Second,
		House:                house.Default(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = d.DebounceWindow
	}
	if c.DebounceFloor <= 0 {
		c.DebounceFloor = d.DebounceFloor
	}
	if c.AdaptiveBurst <= 0 {
		c.AdaptiveBurst = d.AdaptiveBurst
	}
	if c.AdaptiveInterval <= 0 {
		c.AdaptiveInterval = d.AdaptiveInterval
	}
	if c.Use.DurabilityCost == nil {
		c.Use.DurabilityCost = d.Use.DurabilityCost
	}
	if c.MinutesPerTick <= 0 {
		c.MinutesPerTick = d.MinutesPerTick
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.House == nil {
		c.House = d.House
	}
	return c
}

// UpdateFunc receives the per-tick coalesced notification: wall-clock
// delta in milliseconds and a deep state snapshot.
type UpdateFunc func(deltaMs float64, snap state.Snapshot)

// Drop reasons surfaced on Outcome.
const (
	DropDebounced     = "debounced"
	DropSessionEnded  = "session ended"
	DropLowConfidence = "low speech confidence"
)

// Outcome reports what the engine did with one transcript or command.
type Outcome struct {
	Parsed     command.Result `json:"parsed"`
	Applied    bool           `json:"applied"`
	Dropped    bool           `json:"dropped,omitempty"`
	DropReason string         `json:"drop_reason,omitempty"`
	Detail     string         `json:"detail,omitempty"`
	State      state.Snapshot `json:"game_state"`
}

// Engine owns a single game session.
type Engine struct {
	mu  sync.Mutex
	gs  *state.GameState
	cfg Config
	log *slog.Logger
	rng *rand.Rand

	sinks []Sink
	subs  map[int]UpdateFunc
	subID int

	lastAccepted time.Time
	accepted     []time.Time

	// now is swapped out by tests to drive the debounce clock.
	now func() time.Time
}

// New builds an engine around an existing game state.
func New(gs *state.GameState, logger *slog.Logger, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		gs:   gs,
		cfg:  cfg,
		log:  logger,
		rng:  rand.New(rand.NewSource(seed)),
		subs: make(map[int]UpdateFunc),
		now:  time.Now,
	}

	// A session reloaded from storage keeps its debounce history, so
	// stateless API requests cannot sidestep the window.
	if n := len(gs.CommandsIssued); n > 0 {
		e.lastAccepted = gs.CommandsIssued[n-1].Timestamp
		cutoff := time.Now().Add(-cfg.AdaptiveInterval)
		for _, rec := range gs.CommandsIssued {
			if rec.Timestamp.After(cutoff) {
				e.accepted = append(e.accepted, rec.Timestamp)
			}
		}
	}
	return e
}

// AddSink registers an event subscriber. Sinks are fire-and-forget:
// publish errors are logged and never fail the game loop.
func (e *Engine) AddSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, s)
}

// OnUpdate subscribes to per-tick state notifications and returns an
// idempotent unsubscribe function.
func (e *Engine) OnUpdate(fn UpdateFunc) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subID
	e.subID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Snapshot returns a deep copy of the current session state.
func (e *Engine) Snapshot() state.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gs.Snapshot()
}

// HandleTranscript is the voice-input entry point. Transcripts inside
// the debounce window, below the speech-confidence bar, or arriving
// after a terminal condition are dropped without parsing.
func (e *Engine) HandleTranscript(ctx context.Context, transcript string, speechConfidence float64) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gs.Ended() {
		return Outcome{Dropped: true, DropReason: DropSessionEnded, State: e.gs.Snapshot()}
	}
	now := e.now()
	if !e.lastAccepted.IsZero() && now.Sub(e.lastAccepted) < e.debounceWindow(now) {
		e.log.Debug("transcript debounced", "transcript", transcript)
		return Outcome{Dropped: true, DropReason: DropDebounced, State: e.gs.Snapshot()}
	}
	if e.cfg.MinSpeechConfidence > 0 && speechConfidence > 0 && speechConfidence < e.cfg.MinSpeechConfidence {
		e.log.Debug("transcript below speech confidence bar",
			"confidence", speechConfidence)
		return Outcome{Dropped: true, DropReason: DropLowConfidence, State: e.gs.Snapshot()}
	}

	e.lastAccepted = now
	e.accepted = append(e.accepted, now)
	e.pruneAccepted(now)

	pctx := command.ContextFromSnapshot(e.gs.Snapshot())
	parsed := command.Parse(transcript, &pctx)
	return e.handleLocked(ctx, parsed, now)
}

// HandleCommand applies an already-parsed command, bypassing debounce.
// Text-input front ends that parse eagerly use this path.
func (e *Engine) HandleCommand(ctx context.Context, parsed command.Result) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs.Ended() {
		return Outcome{Parsed: parsed, Dropped: true, DropReason: DropSessionEnded, State: e.gs.Snapshot()}
	}
	return e.handleLocked(ctx, parsed, e.now())
}

// debounceWindow picks the active window: the floor under sustained
// command frequency, the nominal width otherwise. Callers hold e.mu.
func (e *Engine) debounceWindow(now time.Time) time.Duration {
	e.pruneAccepted(now)
	if len(e.accepted) >= e.cfg.AdaptiveBurst {
		return e.cfg.DebounceFloor
	}
	return e.cfg.DebounceWindow
}

func (e *Engine) pruneAccepted(now time.Time) {
	cutoff := now.Add(-e.cfg.AdaptiveInterval)
	kept := e.accepted[:0]
	for _, t := range e.accepted {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.accepted = kept
}

// handleLocked runs validation, effect dispatch, logging and event
// emission for one parsed command. Callers hold e.mu.
func (e *Engine) handleLocked(ctx context.Context, parsed command.Result, now time.Time) Outcome {
	// Everything is logged, including failures, so the feedback layer
	// can react to rejections. Only application to state is gated.
	logged := string(parsed.Action)
	if !parsed.Recognized() {
		logged = parsed.OriginalText
	}
	e.gs.RecordCommand(logged, now)

	out := Outcome{Parsed: parsed}

	switch {
	case parsed.Err != nil:
		out.Detail = parsed.Err.Message
		e.emit(ctx, Event{
			Type:    EventCommandFeedback,
			Command: logged,
			Success: false,
			Data:    map[string]any{"error": parsed.Err.Message},
		})
	case !parsed.IsValid:
		out.Detail = parsed.ValidationError
		e.emit(ctx, Event{
			Type:    EventCommandFeedback,
			Command: string(parsed.Action),
			Success: false,
			Data:    map[string]any{"validation_error": parsed.ValidationError},
		})
	default:
		res := e.applyEffect(ctx, parsed)
		out.Applied = res.ok
		out.Detail = res.detail
		data := res.data
		if res.detail != "" {
			if data == nil {
				data = map[string]any{}
			}
			data["detail"] = res.detail
		}
		e.emit(ctx, Event{
			Type:    EventCommandFeedback,
			Command: string(parsed.Action),
			Success: res.ok,
			Data:    data,
		})
	}

	out.State = e.gs.Snapshot()
	return out
}

// AdvanceTime moves the game clock, applies ambient fear creep, rolls
// night events on hour boundaries, and fires the terminal conditions.
// It is the entry point for the external timer collaborator.
func (e *Engine) AdvanceTime(ctx context.Context, minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs.Ended() || minutes <= 0 {
		return
	}

	before := e.gs.ElapsedMinutes()
	sunrise := e.gs.AdvanceTime(minutes)
	after := e.gs.ElapsedMinutes()

	if e.cfg.AmbientFearPerMinute > 0 {
		e.applyFear(ctx, e.cfg.AmbientFearPerMinute*float64(minutes))
	}

	if sunrise {
		e.gs.MarkSurvived()
		e.emit(ctx, Event{
			Type:      EventSessionEnded,
			Interrupt: true,
			Data:      map[string]any{"outcome": string(state.OutcomeSurvived)},
		})
		return
	}

	if state.HourCrossed(before, after) {
		e.rollNightEvent(ctx)
	}
}

// Tick delivers the coalesced per-tick notification to subscribers.
// Mutations between ticks fold into the single snapshot delivered here.
func (e *Engine) Tick(deltaMs float64) {
	e.mu.Lock()
	snap := e.gs.Snapshot()
	subs := make([]UpdateFunc, 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(deltaMs, snap)
	}
}

// Run drives the session clock until a terminal condition or context
// cancellation. It is a convenience loop around AdvanceTime and Tick.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	last := e.now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.AdvanceTime(ctx, e.cfg.MinutesPerTick)
			e.Tick(float64(now.Sub(last).Milliseconds()))
			last = now
			if e.Snapshot().Outcome != state.OutcomeNone || !e.Snapshot().IsAlive {
				return
			}
		}
	}
}

// applyFear routes every fear change through one place so the active
// flashlight damping and transition events stay consistent. Callers
// hold e.mu.
func (e *Engine) applyFear(ctx context.Context, delta float64) {
	if delta > 0 {
		if fl := e.gs.FindItemByName("flashlight"); fl != nil && fl.IsActive && fl.Usable() {
			delta *= 0.7
		}
	}
	ch := e.gs.UpdateFear(delta)
	if !ch.Transition {
		return
	}
	e.emit(ctx, Event{
		Type:         EventFearChange,
		ChangeType:   "state",
		FearLevel:    ch.Level,
		NewFearState: ch.State,
		Interrupt:    ch.State == state.FearOverwhelmed,
	})
}

// applyHealth routes health changes and the death terminal condition.
// Callers hold e.mu.
func (e *Engine) applyHealth(ctx context.Context, delta float64) {
	ch := e.gs.UpdateHealth(delta)
	if ch.Transition {
		e.emit(ctx, Event{
			Type:           EventHealthChange,
			ChangeType:     ch.ChangeType,
			HealthLevel:    ch.Level,
			NewHealthState: ch.State,
			Interrupt:      ch.State == state.HealthDying || ch.Died,
		})
	}
	if ch.Died {
		e.emit(ctx, Event{
			Type:      EventSessionEnded,
			Interrupt: true,
			Data:      map[string]any{"outcome": string(state.OutcomeDied)},
		})
	}
}

// emit publishes to all sinks. Callers hold e.mu. Failures are logged;
// the core never waits on or retries a subscriber.
func (e *Engine) emit(ctx context.Context, ev Event) {
	ev.SessionID = e.gs.ID.String()
	ev.State = e.gs.Snapshot()
	for _, s := range e.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			e.log.Warn("event sink failed", "type", ev.Type, "error", err)
		}
	}
}
