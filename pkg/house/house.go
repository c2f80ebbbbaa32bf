// Package house models the place the player is trapped in: a small
// graph of rooms with exits and lighting.
package house

import "math/rand"

// Room is one place in the house.
type Room struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	Dark   bool     `json:"dark,omitempty"`   // needs the flashlight to see anything
	Locked bool     `json:"locked,omitempty"` // no usable doors from inside
	Exits  []string `json:"exits,omitempty"`  // room keys reachable from here
}

// Layout maps room keys to rooms.
type Layout map[string]*Room

// Default is the standard house for a night.
func Default() Layout {
	return Layout{
		"hallway": {
			Key: "hallway", Name: "Hallway",
			Exits: []string{"living_room", "kitchen", "dark_room"},
		},
		"living_room": {
			Key: "living_room", Name: "Living Room",
			Exits: []string{"hallway", "kitchen"},
		},
		"kitchen": {
			Key: "kitchen", Name: "Kitchen",
			Exits: []string{"hallway", "living_room", "basement"},
		},
		"dark_room": {
			Key: "dark_room", Name: "Dark Room", Dark: true,
			Exits: []string{"hallway"},
		},
		"basement": {
			Key: "basement", Name: "Basement", Dark: true,
			Exits: []string{"kitchen", "locked_room"},
		},
		"locked_room": {
			Key: "locked_room", Name: "Locked Room", Locked: true,
			Exits: nil,
		},
	}
}

// Valid reports whether the key names a room in the layout.
func (l Layout) Valid(key string) bool {
	_, ok := l[key]
	return ok
}

// RandomExit picks a reachable room from the given one. It returns the
// starting key when the room has no exits, so a panicked sprint inside
// the locked room goes nowhere.
func (l Layout) RandomExit(rng *rand.Rand, from string) string {
	room, ok := l[from]
	if !ok || len(room.Exits) == 0 {
		return from
	}
	return room.Exits[rng.Intn(len(room.Exits))]
}
