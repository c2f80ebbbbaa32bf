package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nightdial/sunrise-engine/pkg/command"
	"github.com/nightdial/sunrise-engine/pkg/house"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

type captureSink struct {
	events []Event
}

func (s *captureSink) Publish(_ context.Context, ev Event) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSink) ofType(t EventType) []Event {
	var out []Event
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(cfg Config) (*Engine, *state.GameState, *captureSink, *fakeClock) {
	gs := state.NewGameState()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(gs, logger, cfg)
	sink := &captureSink{}
	e.AddSink(sink)
	clk := &fakeClock{t: time.Date(2026, 8, 26, 23, 0, 0, 0, time.UTC)}
	e.now = clk.now
	return e, gs, sink, clk
}

func TestHandleTranscriptAppliesCommand(t *testing.T) {
	e, gs, sink, _ := newTestEngine(Config{Seed: 1})
	out := e.HandleTranscript(context.Background(), "hide", 1.0)

	if !out.Applied {
		t.Fatalf("expected hide to apply, got %+v", out)
	}
	if out.Parsed.Action != command.ActionHide || out.Parsed.Confidence != 1.0 {
		t.Errorf("unexpected parse %+v", out.Parsed)
	}
	if len(gs.CommandsIssued) != 1 || gs.CommandsIssued[0].Command != "hide" {
		t.Errorf("command not recorded: %+v", gs.CommandsIssued)
	}
	fb := sink.ofType(EventCommandFeedback)
	if len(fb) != 1 || !fb[0].Success {
		t.Errorf("expected one successful feedback event, got %+v", fb)
	}
}

func TestDebounceDropsRapidTranscripts(t *testing.T) {
	e, _, _, clk := newTestEngine(Config{Seed: 1})
	ctx := context.Background()

	if out := e.HandleTranscript(ctx, "hide", 1.0); out.Dropped {
		t.Fatalf("first transcript dropped: %+v", out)
	}
	clk.advance(300 * time.Millisecond)
	out := e.HandleTranscript(ctx, "run", 1.0)
	if !out.Dropped || out.DropReason != DropDebounced {
		t.Fatalf("expected debounce drop, got %+v", out)
	}
	clk.advance(800 * time.Millisecond) // 1100ms since first accept
	if out := e.HandleTranscript(ctx, "wait", 1.0); out.Dropped {
		t.Errorf("transcript past window dropped: %+v", out)
	}
}

func TestAdaptiveDebounceTightens(t *testing.T) {
	e, _, _, clk := newTestEngine(Config{Seed: 1})
	ctx := context.Background()

	// Sustained frequency: five accepted commands a second apart.
	for i := 0; i < 5; i++ {
		if out := e.HandleTranscript(ctx, "wait", 1.0); out.Dropped {
			t.Fatalf("warmup transcript %d dropped: %+v", i, out)
		}
		clk.advance(time.Second)
	}
	clk.advance(-time.Second) // back to the moment of the fifth accept

	clk.advance(700 * time.Millisecond)
	if out := e.HandleTranscript(ctx, "listen", 1.0); !out.Dropped {
		t.Errorf("expected drop inside tightened window, got %+v", out)
	}
	clk.advance(200 * time.Millisecond) // 900ms since last accept
	if out := e.HandleTranscript(ctx, "listen", 1.0); out.Dropped {
		t.Errorf("expected accept past 800ms floor, got %+v", out)
	}
}

func TestLowSpeechConfidenceDropped(t *testing.T) {
	e, gs, _, _ := newTestEngine(Config{Seed: 1, MinSpeechConfidence: 0.5})
	out := e.HandleTranscript(context.Background(), "hide", 0.3)
	if !out.Dropped || out.DropReason != DropLowConfidence {
		t.Fatalf("expected low confidence drop, got %+v", out)
	}
	if len(gs.CommandsIssued) != 0 {
		t.Errorf("dropped transcript was recorded")
	}
}

func TestTerminalStateRejectsInput(t *testing.T) {
	e, gs, _, _ := newTestEngine(Config{Seed: 1})
	gs.Kill()

	out := e.HandleTranscript(context.Background(), "hide", 1.0)
	if !out.Dropped || out.DropReason != DropSessionEnded {
		t.Fatalf("expected session-ended drop, got %+v", out)
	}
	out = e.HandleCommand(context.Background(), command.Parse("hide", nil))
	if !out.Dropped || out.DropReason != DropSessionEnded {
		t.Errorf("HandleCommand accepted input after death: %+v", out)
	}
}

func TestInvalidCommandRecordedNotApplied(t *testing.T) {
	e, gs, sink, _ := newTestEngine(Config{Seed: 1})
	gs.UpdateFear(95)

	out := e.HandleTranscript(context.Background(), "run", 1.0)
	if out.Applied {
		t.Fatalf("invalid command applied: %+v", out)
	}
	if out.Detail != command.ReasonTooScared {
		t.Errorf("detail = %q, want %q", out.Detail, command.ReasonTooScared)
	}
	if len(gs.CommandsIssued) != 1 {
		t.Errorf("invalid command not recorded")
	}
	fb := sink.ofType(EventCommandFeedback)
	if len(fb) != 1 || fb[0].Success {
		t.Errorf("expected one failure feedback event, got %+v", fb)
	}
}

func TestUnrecognizedTranscriptFeedback(t *testing.T) {
	e, gs, _, _ := newTestEngine(Config{Seed: 1})
	out := e.HandleTranscript(context.Background(), "elephant", 1.0)
	if out.Applied || out.Detail == "" {
		t.Fatalf("expected rejection detail, got %+v", out)
	}
	if len(gs.CommandsIssued) != 1 || gs.CommandsIssued[0].Command != "elephant" {
		t.Errorf("unrecognized transcript should be logged verbatim: %+v", gs.CommandsIssued)
	}
}

func TestFearTransitionEventOnBucketCross(t *testing.T) {
	e, _, sink, _ := newTestEngine(Config{Seed: 1})
	ctx := context.Background()

	e.HandleCommand(ctx, command.Parse("open", nil)) // fear 5, still calm
	e.HandleCommand(ctx, command.Parse("open", nil)) // fear 10, nervous

	fear := sink.ofType(EventFearChange)
	if len(fear) != 1 {
		t.Fatalf("expected exactly one fear transition, got %d", len(fear))
	}
	if fear[0].NewFearState != state.FearNervous || fear[0].FearLevel != 10 {
		t.Errorf("unexpected transition event %+v", fear[0])
	}
}

func TestActiveFlashlightDampsFearGain(t *testing.T) {
	e, gs, _, clk := newTestEngine(Config{Seed: 1})
	ctx := context.Background()
	dur := 10
	gs.AddItem(state.Item{Name: "flashlight", Type: state.ItemTool, Durability: &dur})

	out := e.HandleTranscript(ctx, "flashlight", 1.0)
	if !out.Applied {
		t.Fatalf("flashlight toggle failed: %+v", out)
	}
	if fl := gs.FindItemByName("flashlight"); fl == nil || !fl.IsActive {
		t.Fatalf("flashlight not active after toggle")
	}

	clk.advance(2 * time.Second)
	e.HandleTranscript(ctx, "open", 1.0)
	want := 5 * 0.7
	if gs.FearLevel < want-1e-9 || gs.FearLevel > want+1e-9 {
		t.Errorf("fear = %v, want %v with active flashlight damping", gs.FearLevel, want)
	}
}

func TestSunriseVictory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.NightEventChance = 0
	e, gs, sink, _ := newTestEngine(cfg)

	e.AdvanceTime(context.Background(), 420)

	if gs.Outcome != state.OutcomeSurvived || !gs.IsAlive {
		t.Fatalf("expected survival, got outcome=%q alive=%v", gs.Outcome, gs.IsAlive)
	}
	if gs.CurrentTime != state.Sunrise {
		t.Errorf("clock = %q, want %q", gs.CurrentTime, state.Sunrise)
	}
	ended := sink.ofType(EventSessionEnded)
	if len(ended) != 1 || ended[0].Data["outcome"] != string(state.OutcomeSurvived) {
		t.Errorf("expected one survival event, got %+v", ended)
	}
	// Ambient fear accrued across the night.
	if gs.FearLevel == 0 {
		t.Errorf("expected ambient fear creep, fear stayed 0")
	}
}

func TestDeathEmitsTerminalEvent(t *testing.T) {
	e, gs, sink, _ := newTestEngine(Config{Seed: 1})
	e.applyHealth(context.Background(), -100)

	if gs.IsAlive || gs.Outcome != state.OutcomeDied {
		t.Fatalf("expected death, got alive=%v outcome=%q", gs.IsAlive, gs.Outcome)
	}
	ended := sink.ofType(EventSessionEnded)
	if len(ended) != 1 || ended[0].Data["outcome"] != string(state.OutcomeDied) {
		t.Fatalf("expected one death event, got %+v", ended)
	}
	hc := sink.ofType(EventHealthChange)
	if len(hc) == 0 || !hc[len(hc)-1].Interrupt {
		t.Errorf("terminal health transition should interrupt, got %+v", hc)
	}
}

func TestHourBoundaryRollsNightEvent(t *testing.T) {
	cfg := Config{Seed: 7, NightEventChance: 100}
	e, _, sink, _ := newTestEngine(cfg)

	e.AdvanceTime(context.Background(), 60)

	night := sink.ofType(EventNight)
	if len(night) != 1 {
		t.Fatalf("expected one night event at the hour boundary, got %d", len(night))
	}
	if night[0].EventName == "" || night[0].Data["narration"] == "" {
		t.Errorf("night event missing name or narration: %+v", night[0])
	}
}

func TestNightEventsDeterministicWithSeed(t *testing.T) {
	draw := func() string {
		cfg := Config{Seed: 42, NightEventChance: 100}
		e, _, sink, _ := newTestEngine(cfg)
		e.rollNightEvent(context.Background())
		night := sink.ofType(EventNight)
		if len(night) != 1 {
			t.Fatalf("expected one event, got %d", len(night))
		}
		return night[0].EventName
	}
	if a, b := draw(), draw(); a != b {
		t.Errorf("same seed drew different events: %q vs %q", a, b)
	}
}

func TestRunMovesThroughTheHouse(t *testing.T) {
	e, gs, _, _ := newTestEngine(Config{Seed: 3})
	out := e.HandleCommand(context.Background(), command.Parse("run", nil))

	if !out.Applied {
		t.Fatalf("run not applied: %+v", out)
	}
	if gs.Location == "hallway" {
		t.Error("run should leave the hallway")
	}
	if !house.Default().Valid(gs.Location) {
		t.Errorf("run reached unknown room %q", gs.Location)
	}
}

func TestOnUpdateUnsubscribeIdempotent(t *testing.T) {
	e, _, _, _ := newTestEngine(Config{Seed: 1})
	calls := 0
	unsub := e.OnUpdate(func(_ float64, _ state.Snapshot) { calls++ })

	e.Tick(100)
	if calls != 1 {
		t.Fatalf("expected one update, got %d", calls)
	}
	unsub()
	unsub() // second call is a no-op
	e.Tick(100)
	if calls != 1 {
		t.Errorf("update delivered after unsubscribe")
	}
}

func TestTickDeliversDeepSnapshot(t *testing.T) {
	e, gs, _, _ := newTestEngine(Config{Seed: 1})
	dur := 5
	gs.AddItem(state.Item{Name: "flashlight", Type: state.ItemTool, Durability: &dur})

	var got state.Snapshot
	e.OnUpdate(func(_ float64, snap state.Snapshot) { got = snap })
	e.Tick(100)

	if len(got.Inventory) != 1 {
		t.Fatalf("snapshot missing inventory")
	}
	*got.Inventory[0].Durability = 0
	if *gs.Inventory[0].Durability != 5 {
		t.Errorf("snapshot aliases live inventory")
	}
}
