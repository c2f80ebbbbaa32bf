package worker

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nightdial/sunrise-engine/pkg/queue"
)

var titleCaser = cases.Title(language.English)

// fearLines phrase fear-state transitions for the narrator voice.
var fearLines = map[string]string{
	"calm":        "Your heartbeat settles.",
	"nervous":     "Something feels off. Your hands won't stay still.",
	"scared":      "Your pulse pounds in your ears.",
	"terrified":   "Every shadow has teeth now.",
	"panicked":    "You can't think straight. Everything is a threat.",
	"overwhelmed": "Terror takes the wheel. Your body barely answers you.",
}

var healthLines = map[string]string{
	"excellent": "You feel steady on your feet.",
	"good":      "A few scrapes, nothing more.",
	"injured":   "Pain flares with every movement.",
	"wounded":   "You're hurt badly. Blood where it shouldn't be.",
	"critical":  "Your vision swims. You can't take much more.",
	"dying":     "The floor tilts. Darkness creeps in from the edges.",
}

// Renderer turns narration cues into spoken lines
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the final narration line for a cue. Cues with
// explicit text pass through with location dressing; transition cues
// are phrased from the state name.
func (r *Renderer) Render(cue *queue.Cue) string {
	line := cue.Text

	switch cue.Type {
	case queue.CueTransition:
		if line == "" {
			if l, ok := fearLines[cue.FearState]; ok && cue.FearState != "" {
				line = l
			} else if l, ok := healthLines[cue.HealthSt]; ok && cue.HealthSt != "" {
				line = l
			}
		}
	case queue.CueTerminal:
		if line == "" {
			line = "The night is over."
		}
	}

	if line == "" {
		return ""
	}
	if cue.Location != "" {
		line = fmt.Sprintf("%s: %s", PrettyLocation(cue.Location), line)
	}
	return line
}

// PrettyLocation turns a location key like "dark_room" into "Dark Room"
func PrettyLocation(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}
