package engine

import "context"

// nightEvent is one entry in the hourly scare table. Weight sets the
// relative draw odds; fear and health are applied on the spot.
type nightEvent struct {
	name      string
	weight    int
	fear      float64
	health    float64
	interrupt bool
	narration string
}

var nightEvents = []nightEvent{
	{name: "distant_whisper", weight: 25, fear: 8,
		narration: "A whisper drifts up from somewhere below."},
	{name: "window_rattle", weight: 20, fear: 10,
		narration: "The window rattles in its frame."},
	{name: "power_flicker", weight: 15, fear: 12,
		narration: "The lights stutter and die for a heartbeat."},
	{name: "cold_draft", weight: 15, fear: 6,
		narration: "A cold draft crawls across the floor."},
	{name: "knock_at_door", weight: 12, fear: 18, interrupt: true,
		narration: "Three slow knocks. Nobody should be out there."},
	{name: "shadow_figure", weight: 8, fear: 22, health: -5, interrupt: true,
		narration: "A shape detaches from the wall and brushes past you."},
	{name: "stalker_close", weight: 5, fear: 30, health: -10, interrupt: true,
		narration: "Breathing. Right behind you."},
}

var nightEventTotalWeight = func() int {
	total := 0
	for _, ev := range nightEvents {
		total += ev.weight
	}
	return total
}()

// rollNightEvent fires on each game-hour boundary. The chance gate and
// the table draw both come from the engine's seeded source, so a fixed
// seed replays an identical night. Callers hold e.mu.
func (e *Engine) rollNightEvent(ctx context.Context) {
	if e.cfg.NightEventChance <= 0 || e.rng.Intn(100) >= e.cfg.NightEventChance {
		return
	}

	roll := e.rng.Intn(nightEventTotalWeight)
	var picked nightEvent
	for _, ev := range nightEvents {
		if roll < ev.weight {
			picked = ev
			break
		}
		roll -= ev.weight
	}

	e.log.Info("night event", "name", picked.name, "hour", e.gs.CurrentTime)
	e.emit(ctx, Event{
		Type:      EventNight,
		EventName: picked.name,
		Interrupt: picked.interrupt,
		Data:      map[string]any{"narration": picked.narration},
	})
	if picked.fear != 0 {
		e.applyFear(ctx, picked.fear)
	}
	if picked.health != 0 {
		e.applyHealth(ctx, picked.health)
	}
}
