package state

import (
	"strings"

	"github.com/google/uuid"
)

// ItemType classifies inventory items for effect dispatch and validation.
type ItemType string

const (
	ItemTool       ItemType = "tool"
	ItemWeapon     ItemType = "weapon"
	ItemKey        ItemType = "key"
	ItemConsumable ItemType = "consumable"
	ItemLight      ItemType = "light"
	ItemDocument   ItemType = "document"
	ItemMisc       ItemType = "misc"
)

var validItemTypes = map[ItemType]bool{
	ItemTool:       true,
	ItemWeapon:     true,
	ItemKey:        true,
	ItemConsumable: true,
	ItemDocument:   true,
	ItemLight:      true,
	ItemMisc:       true,
}

// Item is a single inventory entry. Durability and Quantity are optional;
// items without them never wear out or run dry.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       ItemType `json:"type"`
	Durability *int     `json:"durability,omitempty"` // 0-100, decays with use
	Quantity   *int     `json:"quantity,omitempty"`   // >= 0
	IsActive   bool     `json:"is_active,omitempty"`  // equip toggle for tools/lights
}

// Usable reports whether the item can still be used: present durability
// must be positive, present quantity must be positive.
func (i *Item) Usable() bool {
	if i.Durability != nil && *i.Durability <= 0 {
		return false
	}
	if i.Quantity != nil && *i.Quantity <= 0 {
		return false
	}
	return true
}

// Spent reports whether a durability or quantity item is exhausted.
func (i *Item) Spent() bool {
	return (i.Durability != nil && *i.Durability <= 0) ||
		(i.Quantity != nil && *i.Quantity <= 0)
}

func (i *Item) clone() Item {
	c := *i
	if i.Durability != nil {
		d := *i.Durability
		c.Durability = &d
	}
	if i.Quantity != nil {
		q := *i.Quantity
		c.Quantity = &q
	}
	return c
}

// AddItem validates and appends an item to the inventory. A missing ID is
// generated; a missing name or unknown type rejects the item.
func (gs *GameState) AddItem(item Item) bool {
	if strings.TrimSpace(item.Name) == "" {
		return false
	}
	if !validItemTypes[item.Type] {
		return false
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if gs.FindItem(item.ID) != nil {
		return false
	}
	gs.Inventory = append(gs.Inventory, item)
	return true
}

// FindItem returns a pointer to the inventory item with the given ID,
// or nil if absent. The pointer is into the live inventory slice.
func (gs *GameState) FindItem(id string) *Item {
	for idx := range gs.Inventory {
		if gs.Inventory[idx].ID == id {
			return &gs.Inventory[idx]
		}
	}
	return nil
}

// FindItemByName returns the first item whose name contains the given
// fragment, case-insensitive.
func (gs *GameState) FindItemByName(fragment string) *Item {
	fragment = strings.ToLower(fragment)
	for idx := range gs.Inventory {
		if strings.Contains(strings.ToLower(gs.Inventory[idx].Name), fragment) {
			return &gs.Inventory[idx]
		}
	}
	return nil
}

// FindItemByType returns the first item of the given type, or nil.
func (gs *GameState) FindItemByType(t ItemType) *Item {
	for idx := range gs.Inventory {
		if gs.Inventory[idx].Type == t {
			return &gs.Inventory[idx]
		}
	}
	return nil
}

// RemoveItem deletes an item by ID. Returns false if the item is absent.
func (gs *GameState) RemoveItem(id string) bool {
	for idx := range gs.Inventory {
		if gs.Inventory[idx].ID == id {
			gs.Inventory = append(gs.Inventory[:idx], gs.Inventory[idx+1:]...)
			return true
		}
	}
	return false
}

// UseOptions carries the item-type-specific wear configuration. Costs are
// durability points removed per use; PruneSpent removes items the moment
// their durability or quantity reaches zero.
type UseOptions struct {
	DurabilityCost map[ItemType]int
	PruneSpent     bool
}

// UseItem applies one use of the item with the given ID: durability items
// lose their configured cost, quantity items lose one unit, tools and
// lights toggle their active flag. Returns false if the item is absent or
// already spent.
func (gs *GameState) UseItem(id string, opts UseOptions) bool {
	item := gs.FindItem(id)
	if item == nil || !item.Usable() {
		return false
	}

	if item.Durability != nil {
		cost, ok := opts.DurabilityCost[item.Type]
		if !ok {
			cost = 1
		}
		d := *item.Durability - cost
		if d < 0 {
			d = 0
		}
		*item.Durability = d
	}
	if item.Quantity != nil {
		*item.Quantity--
	}
	if item.Type == ItemTool || item.Type == ItemLight {
		item.IsActive = !item.IsActive
	}
	if item.Spent() {
		item.IsActive = false
		if opts.PruneSpent {
			gs.RemoveItem(id)
		}
	}
	return true
}
