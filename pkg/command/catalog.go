package command

import "fmt"

// Canonical actions. The catalog below is the authoritative list; these
// constants exist so effect dispatch and validation can switch on them.
const (
	ActionHide       Action = "hide"
	ActionRun        Action = "run"
	ActionWait       Action = "wait"
	ActionPray       Action = "pray"
	ActionListen     Action = "listen"
	ActionLook       Action = "look"
	ActionFlashlight Action = "flashlight"
	ActionOpen       Action = "open"
	ActionClose      Action = "close"
	ActionLock       Action = "lock"
	ActionBarricade  Action = "barricade"
	ActionSearch     Action = "search"
	ActionUse        Action = "use"
	ActionInventory  Action = "inventory"
	ActionCombine    Action = "combine"
	ActionHelp       Action = "help"
)

// Entry is one row of the command catalog: a canonical action, its
// spoken aliases, its category and a player-facing description.
// Entries are immutable for the process lifetime.
type Entry struct {
	Action      Action
	Aliases     []string
	Category    Category
	Description string
}

// catalog is the static command table. Alias phrases are stored
// normalized and must not contain stopwords, or they could never match
// a filtered transcript.
var catalog = []Entry{
	{ActionHide, []string{"duck", "take cover", "crouch", "get down", "conceal yourself"}, CategoryDefensive, "Hide from whatever is out there."},
	{ActionRun, []string{"flee", "escape", "sprint", "run away", "get out"}, CategoryMovement, "Run. Fast."},
	{ActionWait, []string{"stay", "stay still", "stay put", "hold still", "do nothing"}, CategoryPassive, "Stay still and let time pass."},
	{ActionPray, []string{"breathe", "calm down", "steady yourself"}, CategoryPassive, "Steady your nerves."},
	{ActionListen, []string{"hear", "listen carefully", "eavesdrop"}, CategoryPerception, "Listen for movement."},
	{ActionLook, []string{"watch", "peek", "look around", "observe"}, CategoryPerception, "Look around the room."},
	{ActionFlashlight, []string{"light", "torch", "turn on light", "shine light"}, CategoryTool, "Toggle the flashlight."},
	{ActionOpen, []string{"open door", "enter", "go through"}, CategoryInteraction, "Open the nearest door."},
	{ActionClose, []string{"shut", "close door", "slam door"}, CategoryInteraction, "Close the nearest door."},
	{ActionLock, []string{"lock door", "bolt", "latch"}, CategoryDefensive, "Lock the door."},
	{ActionBarricade, []string{"block door", "board up", "push furniture"}, CategoryDefensive, "Barricade the door."},
	{ActionSearch, []string{"scavenge", "rummage", "look for"}, CategoryInventory, "Search the area for anything useful."},
	{ActionUse, []string{"apply", "equip", "consume"}, CategoryInventory, "Use an item from your pockets."},
	{ActionInventory, []string{"items", "pockets", "check pockets", "check inventory"}, CategoryInventory, "Check what you are carrying."},
	{ActionCombine, []string{"craft", "merge", "put together"}, CategoryInventory, "Combine two items."},
	{ActionHelp, []string{"commands", "instructions", "show commands"}, CategoryMeta, "List what you can do."},
}

var (
	byAction map[Action]*Entry
	byAlias  map[string]*Entry
)

func init() {
	byAction = make(map[Action]*Entry, len(catalog))
	byAlias = make(map[string]*Entry, len(catalog)*4)
	for idx := range catalog {
		e := &catalog[idx]
		if e.Action == "" {
			// A catalog row without a canonical action is a programming
			// error, not a runtime condition.
			panic("command: catalog entry with empty action")
		}
		byAction[e.Action] = e
		for _, a := range e.Aliases {
			if prev, dup := byAlias[a]; dup {
				panic(fmt.Sprintf("command: alias %q claimed by both %s and %s", a, prev.Action, e.Action))
			}
			byAlias[a] = e
		}
	}
}

// Catalog returns the full command table, in declaration order.
func Catalog() []Entry { return catalog }

// Lookup returns the catalog entry for a canonical action.
func Lookup(action Action) (*Entry, bool) {
	e, ok := byAction[action]
	return e, ok
}

// LookupAlias returns the entry owning an exact alias phrase.
func LookupAlias(alias string) (*Entry, bool) {
	e, ok := byAlias[alias]
	return e, ok
}
