// Package command turns noisy voice transcripts into validated game
// actions. Parsing runs a strict strategy cascade: exact, alias,
// partial, contextual, fuzzy. The first strategy whose confidence
// clears the floor wins; strategies are never aggregated.
package command

import (
	"strings"
	"time"

	"github.com/nightdial/sunrise-engine/pkg/similarity"
)

const (
	// confidenceFloor is the minimum confidence a strategy must produce
	// to claim the parse.
	confidenceFloor = 0.3

	// fuzzyGate is the minimum similarity considered by the fuzzy
	// strategy at all.
	fuzzyGate = 0.5

	// boostCap bounds the defensive contextual boost. Boosted results
	// may legitimately exceed 1.0; consumers are warned on Result.
	boostCap = 1.1
)

// Parse interprets one transcript against the command catalog, using the
// optional game context for inference, boosting and validation. It never
// panics on player input; both failure modes come back as Result.Err.
func Parse(transcript string, ctx *Context) Result {
	start := time.Now()
	hasCtx := ctx != nil
	if ctx == nil {
		ctx = &Context{}
	}

	finish := func(r Result) Result {
		r.ParsedAt = start
		r.Elapsed = time.Since(start)
		return r
	}

	norm := Normalize(transcript)
	tokens := Tokenize(norm)
	joined := strings.Join(tokens, " ")
	if joined == "" {
		// Empty, whitespace-only, and all-stopword transcripts share one
		// consistent failure path.
		return finish(Result{
			Action:    ActionUnknown,
			MatchType: MatchError,
			Err:       invalidInput(),
		})
	}

	res, ok := tryExact(joined)
	if !ok {
		res, ok = tryAlias(joined)
	}
	if !ok {
		res, ok = tryPartial(tokens)
	}
	if !ok && hasCtx {
		res, ok = tryContextual(tokens, ctx)
	}
	if !ok {
		res, ok = tryFuzzy(joined)
	}
	if !ok || res.Confidence <= confidenceFloor {
		return finish(Result{
			Action:       ActionUnknown,
			MatchType:    MatchError,
			Err:          notRecognized(),
			OriginalText: joined,
		})
	}

	// Enhancement step: modifiers, contextual boost, validation.
	res.OriginalText = joined
	res.Modifiers = extractModifiers(tokens)
	if hasCtx && ctx.FearLevel > 50 && res.Category == CategoryDefensive {
		res.Confidence *= boostCap
		if res.Confidence > boostCap {
			res.Confidence = boostCap
		}
	}
	res.IsValid, res.ValidationError = Validate(&res, ctx)
	return finish(res)
}

func resultFor(e *Entry, mt MatchType, confidence float64) Result {
	return Result{
		Action:     e.Action,
		Confidence: confidence,
		MatchType:  mt,
		Category:   e.Category,
	}
}

// tryExact: the filtered token string is exactly a canonical action.
func tryExact(joined string) (Result, bool) {
	if e, ok := byAction[Action(joined)]; ok {
		return resultFor(e, MatchExact, 1.0), true
	}
	return Result{}, false
}

// tryAlias: the filtered text equals an alias (0.9) or contains one as a
// substring (0.9 x 0.9). Equality always outranks containment.
func tryAlias(joined string) (Result, bool) {
	if e, ok := byAlias[joined]; ok {
		r := resultFor(e, MatchAlias, 0.9)
		r.MatchedAlias = joined
		return r, true
	}

	var best Result
	for idx := range catalog {
		e := &catalog[idx]
		for _, alias := range e.Aliases {
			if !strings.Contains(joined, alias) {
				continue
			}
			if best.Action == "" || len(alias) > len(best.MatchedAlias) {
				best = resultFor(e, MatchAlias, 0.9*0.9)
				best.MatchedAlias = alias
			}
		}
	}
	if best.Action != "" {
		return best, true
	}
	return Result{}, false
}

// tryPartial: the canonical action word appears among the tokens (0.7),
// or every token of a multi-word alias does, in any order (0.7 x 0.9).
func tryPartial(tokens []string) (Result, bool) {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}

	for idx := range catalog {
		if set[string(catalog[idx].Action)] {
			return resultFor(&catalog[idx], MatchPartial, 0.7), true
		}
	}

	for idx := range catalog {
		e := &catalog[idx]
		for _, alias := range e.Aliases {
			words := strings.Fields(alias)
			if len(words) < 2 {
				continue
			}
			all := true
			for _, w := range words {
				if !set[w] {
					all = false
					break
				}
			}
			if all {
				r := resultFor(e, MatchPartialAlias, 0.7*0.9)
				r.MatchedAlias = alias
				return r, true
			}
		}
	}
	return Result{}, false
}

// contextRule is one named entry in the fixed contextual-inference
// table. Extend this table only with explicit rules; it is not a general
// inference mechanism.
type contextRule struct {
	name    string
	reason  string
	action  Action
	applies func(ctx *Context, has func(...string) bool) bool
}

var contextRules = []contextRule{
	{
		name:   "high-fear-hide",
		reason: "high fear level",
		action: ActionHide,
		applies: func(ctx *Context, has func(...string) bool) bool {
			return ctx.FearLevel > 70 && has("behind", "under", "away", "corner", "somewhere")
		},
	},
	{
		name:   "dark-room-flashlight",
		reason: "dark environment",
		action: ActionFlashlight,
		applies: func(ctx *Context, has func(...string) bool) bool {
			return ctx.Location == "dark_room" && has("see", "bright", "illuminate", "dark", "anything")
		},
	},
	{
		name:   "low-health-use",
		reason: "low health",
		action: ActionUse,
		applies: func(ctx *Context, has func(...string) bool) bool {
			return ctx.Health > 0 && ctx.Health < 25 && has("bandage", "medkit", "heal", "bleeding", "hurt")
		},
	},
}

// tryContextual consults the fixed rule table (0.6).
func tryContextual(tokens []string, ctx *Context) (Result, bool) {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	has := func(words ...string) bool {
		for _, w := range words {
			if set[w] {
				return true
			}
		}
		return false
	}

	for _, rule := range contextRules {
		if !rule.applies(ctx, has) {
			continue
		}
		e, ok := byAction[rule.action]
		if !ok {
			continue
		}
		r := resultFor(e, MatchContextual, 0.6)
		r.ContextReason = rule.reason
		return r, true
	}
	return Result{}, false
}

// tryFuzzy scores the whole filtered text against every canonical name
// and alias, aliases weighted x0.9, and takes the single best candidate
// when it clears the similarity gate. Confidence is similarity x 0.4.
func tryFuzzy(joined string) (Result, bool) {
	var (
		best      *Entry
		bestScore float64
	)
	for idx := range catalog {
		e := &catalog[idx]
		if s := similarity.Score(joined, string(e.Action)); s > bestScore {
			best, bestScore = e, s
		}
		for _, alias := range e.Aliases {
			if s := similarity.Score(joined, alias) * 0.9; s > bestScore {
				best, bestScore = e, s
			}
		}
	}
	if best == nil || bestScore <= fuzzyGate {
		return Result{}, false
	}
	return resultFor(best, MatchFuzzy, bestScore*0.4), true
}
