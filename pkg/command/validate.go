package command

import (
	"strings"

	"github.com/nightdial/sunrise-engine/pkg/state"
)

// Validation failure reasons surfaced to the narration layer.
const (
	ReasonTooScared    = "Too scared to perform this action"
	ReasonNoFlashlight = "Flashlight not available"
	ReasonNoDoors      = "No doors available to open"
)

// Validate applies the contextual validation rules to a recognized
// result. Passive and inventory actions stay available even at maximum
// fear, so a panicking player can always wait or manage items. Deeper
// inventory checks (does the named item exist) are deferred to the
// inventory collaborator; inventory-category actions are structurally
// valid here.
func Validate(res *Result, ctx *Context) (bool, string) {
	if ctx == nil {
		ctx = &Context{}
	}

	if ctx.FearLevel >= 90 && res.Category != CategoryPassive && res.Category != CategoryInventory {
		return false, ReasonTooScared
	}

	switch res.Action {
	case ActionFlashlight:
		if !hasFlashlight(ctx.Inventory) {
			return false, ReasonNoFlashlight
		}
	case ActionOpen:
		if ctx.Location == "locked_room" {
			return false, ReasonNoDoors
		}
	}
	return true, ""
}

func hasFlashlight(inv []state.Item) bool {
	for i := range inv {
		if inv[i].Type == state.ItemTool && strings.Contains(strings.ToLower(inv[i].Name), "flashlight") {
			return true
		}
	}
	return false
}
