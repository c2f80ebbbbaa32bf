package command

func boolp(v bool) *bool { return &v }

// modifierTable maps adverb-like tokens to the modifier they contribute.
// Every occurrence of a token adds one entry, duplicates included.
var modifierTable = map[string]Modifier{
	"quickly":   {Type: "quickly", Urgency: "high", FearMod: 0.1},
	"fast":      {Type: "fast", Urgency: "high", FearMod: 0.1},
	"slowly":    {Type: "slowly", Urgency: "low", FearMod: -0.1},
	"carefully": {Type: "carefully", Urgency: "low", FearMod: -0.05},
	"quietly":   {Type: "quietly", Stealth: boolp(true), FearMod: -0.1},
	"silently":  {Type: "silently", Stealth: boolp(true), FearMod: -0.1},
	"loudly":    {Type: "loudly", Stealth: boolp(false), FearMod: 0.1},
}

func extractModifiers(tokens []string) []Modifier {
	var mods []Modifier
	for _, tok := range tokens {
		if m, ok := modifierTable[tok]; ok {
			mods = append(mods, m)
		}
	}
	return mods
}

// FearModSum is the combined fear scaling of a result's modifiers.
func (r *Result) FearModSum() float64 {
	var sum float64
	for _, m := range r.Modifiers {
		sum += m.FearMod
	}
	return sum
}

// Stealthy reports whether any modifier requested stealth.
func (r *Result) Stealthy() bool {
	for _, m := range r.Modifiers {
		if m.Stealth != nil && *m.Stealth {
			return true
		}
	}
	return false
}
