// Package similarity scores how close two strings are, for matching
// noisy voice transcripts against known command phrases.
package similarity

import "github.com/agnivade/levenshtein"

// Distance returns the Levenshtein edit distance between a and b,
// with unit cost for inserts, deletes and substitutions.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Score returns a similarity in [0,1]: 1.0 for identical strings,
// 0.0 when every character differs. Two empty strings score 1.0.
func Score(a, b string) float64 {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-Distance(a, b)) / float64(longer)
}
