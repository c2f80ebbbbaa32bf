package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/nightdial/sunrise-engine/pkg/command"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

// effectResult is what one applied command reports back to the
// feedback event and the caller.
type effectResult struct {
	ok     bool
	detail string
	data   map[string]any
}

// fearEffects maps each action onto its base fear delta. Calming
// actions carry negative deltas; reckless ones spike fear.
var fearEffects = map[command.Action]float64{
	command.ActionHide:      -10,
	command.ActionRun:       15,
	command.ActionWait:      -5,
	command.ActionPray:      -12,
	command.ActionListen:    4,
	command.ActionLook:      2,
	command.ActionOpen:      5,
	command.ActionClose:     -3,
	command.ActionLock:      -8,
	command.ActionBarricade: -15,
	command.ActionSearch:    3,
}

// searchLoot is the pool the search action draws from.
var searchLoot = []state.Item{
	{Name: "bandage", Type: state.ItemConsumable},
	{Name: "old key", Type: state.ItemKey},
	{Name: "spare batteries", Type: state.ItemConsumable},
	{Name: "kitchen knife", Type: state.ItemWeapon},
	{Name: "crumpled note", Type: state.ItemDocument},
}

// applyEffect mutates game state for one validated command. Callers
// hold e.mu.
func (e *Engine) applyEffect(ctx context.Context, parsed command.Result) effectResult {
	switch parsed.Action {
	case command.ActionFlashlight:
		return e.toggleFlashlight(ctx)
	case command.ActionUse:
		return e.useSupplies(ctx)
	case command.ActionSearch:
		return e.search(ctx, parsed)
	case command.ActionInventory:
		return e.describeInventory()
	case command.ActionHelp:
		return effectResult{ok: true, detail: "Speak an action: hide, run, wait, listen, look around, use flashlight, barricade door..."}
	case command.ActionCombine:
		// Crafting lands with the workshop update.
		return effectResult{ok: true, detail: "Nothing here combines yet."}
	}

	base, known := fearEffects[parsed.Action]
	if !known {
		return effectResult{ok: false, detail: fmt.Sprintf("no effect for action %q", parsed.Action)}
	}

	delta := scaleFear(base, parsed)
	e.applyFear(ctx, delta)

	if parsed.Action == command.ActionRun {
		dest := e.cfg.House.RandomExit(e.rng, e.gs.Location)
		e.gs.SetLocation(dest)
		// Bolting in the dark risks a fall.
		if e.rng.Intn(100) < 20 {
			e.applyHealth(ctx, -5)
			return effectResult{ok: true, detail: "You run and stumble hard in the dark.",
				data: map[string]any{"fear_delta": delta, "health_delta": -5.0, "location": dest}}
		}
		return effectResult{ok: true,
			data: map[string]any{"fear_delta": delta, "location": dest}}
	}

	return effectResult{ok: true, data: map[string]any{"fear_delta": delta}}
}

// scaleFear folds the parsed modifiers into the base delta. Urgency
// amplifies fear swings in both directions; stealth softens spikes.
func scaleFear(base float64, parsed command.Result) float64 {
	mod := parsed.FearModSum()
	delta := base
	if base > 0 {
		delta = base * (1 + mod)
	} else if base < 0 {
		delta = base * (1 - mod)
	}
	if parsed.Stealthy() && delta > 0 {
		delta *= 0.5
	}
	return delta
}

func (e *Engine) toggleFlashlight(ctx context.Context) effectResult {
	fl := e.gs.FindItemByName("flashlight")
	if fl == nil {
		return effectResult{ok: false, detail: command.ReasonNoFlashlight}
	}
	turningOn := !fl.IsActive
	if !e.gs.UseItem(fl.ID, e.cfg.Use) {
		return effectResult{ok: false, detail: "The flashlight is dead."}
	}
	if turningOn {
		e.applyFear(ctx, -8)
		return effectResult{ok: true, detail: "The beam cuts through the dark.",
			data: map[string]any{"flashlight": "on"}}
	}
	e.applyFear(ctx, 4)
	return effectResult{ok: true, detail: "Darkness closes back in.",
		data: map[string]any{"flashlight": "off"}}
}

// useSupplies consumes the best healing item on hand, falling back to
// the first consumable.
func (e *Engine) useSupplies(ctx context.Context) effectResult {
	item := e.gs.FindItemByName("medkit")
	if item == nil {
		item = e.gs.FindItemByName("bandage")
	}
	if item == nil {
		item = e.gs.FindItemByType(state.ItemConsumable)
	}
	if item == nil {
		return effectResult{ok: false, detail: "Nothing usable in your pockets."}
	}
	name := item.Name
	if !e.gs.UseItem(item.ID, e.cfg.Use) {
		return effectResult{ok: false, detail: "It crumbles uselessly in your hands."}
	}
	heal := 10.0
	if strings.Contains(strings.ToLower(name), "medkit") {
		heal = 30.0
	}
	e.applyHealth(ctx, heal)
	return effectResult{ok: true, detail: fmt.Sprintf("You use the %s.", name),
		data: map[string]any{"item": name, "health_delta": heal}}
}

func (e *Engine) search(ctx context.Context, parsed command.Result) effectResult {
	e.applyFear(ctx, scaleFear(fearEffects[command.ActionSearch], parsed))
	if e.rng.Intn(100) < 40 {
		loot := searchLoot[e.rng.Intn(len(searchLoot))]
		if !e.gs.AddItem(loot) {
			return effectResult{ok: true, detail: "You find nothing you can carry."}
		}
		return effectResult{ok: true, detail: fmt.Sprintf("You find a %s.", loot.Name),
			data: map[string]any{"found": loot.Name}}
	}
	return effectResult{ok: true, detail: "Nothing but dust and shadows."}
}

func (e *Engine) describeInventory() effectResult {
	if len(e.gs.Inventory) == 0 {
		return effectResult{ok: true, detail: "Your pockets are empty."}
	}
	names := make([]string, 0, len(e.gs.Inventory))
	for _, it := range e.gs.Inventory {
		label := it.Name
		if it.IsActive {
			label += " (on)"
		}
		names = append(names, label)
	}
	return effectResult{ok: true, detail: "You carry: " + strings.Join(names, ", "),
		data: map[string]any{"items": names}}
}
