// Package textfilter cleans raw speech-recognition transcripts before
// they reach the command parser.
package textfilter

import (
	"regexp"
	"strings"
)

// Speech recognizers emit bracketed annotations for non-speech audio.
// None of it is player intent.
var annotationPattern = regexp.MustCompile(`(?i)[\[(](?:inaudible|unintelligible|noise|music|static|silence|laughs?|coughs?|breathing|crosstalk)[^\])]*[\])]`)

// stutterPattern matches nervous stutter prefixes like "h-h-hide".
var stutterPattern = regexp.MustCompile(`(?i)\b(?:[a-z]-)+([a-z]+)`)

var spacePattern = regexp.MustCompile(`\s+`)

// Scrubber normalizes recognizer output: annotations removed, stutters
// and immediate word repeats collapsed, whitespace folded.
type Scrubber struct{}

// NewScrubber creates a transcript scrubber
func NewScrubber() *Scrubber {
	return &Scrubber{}
}

// Scrub returns a cleaned copy of the transcript
func (s *Scrubber) Scrub(text string) string {
	text = annotationPattern.ReplaceAllString(text, " ")
	text = stutterPattern.ReplaceAllString(text, "$1")
	text = spacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
	return collapseRepeats(text)
}

// collapseRepeats folds immediate duplicate words, a common artifact
// of panicked speech ("hide hide hide").
func collapseRepeats(text string) string {
	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}
	out := words[:1]
	for _, w := range words[1:] {
		if !strings.EqualFold(w, out[len(out)-1]) {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}
