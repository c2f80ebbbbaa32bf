package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nightdial/sunrise-engine/pkg/engine"
	queuePkg "github.com/nightdial/sunrise-engine/pkg/queue"
)

// CueSink adapts the narration queue into an engine event sink: each
// narratable engine event becomes a queued cue for the worker.
type CueSink struct {
	queue *NarrationQueue
}

var _ engine.Sink = (*CueSink)(nil)

func NewCueSink(nq *NarrationQueue) *CueSink {
	return &CueSink{queue: nq}
}

// Publish maps an engine event onto a narration cue. Events with
// nothing to narrate are ignored.
func (s *CueSink) Publish(ctx context.Context, ev engine.Event) error {
	sessionID, err := uuid.Parse(ev.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session ID on event: %w", err)
	}

	cue := &queuePkg.Cue{
		SessionID: sessionID,
		Location:  ev.State.Location,
		Interrupt: ev.Interrupt,
	}

	switch ev.Type {
	case engine.EventCommandFeedback:
		cue.Type = queuePkg.CueFeedback
		cue.Text = feedbackText(ev)
	case engine.EventFearChange:
		cue.Type = queuePkg.CueTransition
		cue.FearState = string(ev.NewFearState)
	case engine.EventHealthChange:
		cue.Type = queuePkg.CueTransition
		cue.HealthSt = string(ev.NewHealthState)
	case engine.EventNight:
		cue.Type = queuePkg.CueNightEvent
		if n, ok := ev.Data["narration"].(string); ok {
			cue.Text = n
		}
	case engine.EventSessionEnded:
		cue.Type = queuePkg.CueTerminal
		cue.Location = ""
		if ev.Data["outcome"] == "survived" {
			cue.Text = "Light bleeds through the curtains. You made it to sunrise."
		} else {
			cue.Text = "The dark takes you. The night wins this time."
		}
	default:
		return nil
	}

	if cue.Type == queuePkg.CueFeedback && cue.Text == "" {
		// Silent successes don't interrupt the ambience.
		return nil
	}
	return s.queue.Enqueue(ctx, cue)
}

func feedbackText(ev engine.Event) string {
	for _, key := range []string{"detail", "validation_error", "error"} {
		if v, ok := ev.Data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
