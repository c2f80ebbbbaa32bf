// Package worker runs the narration renderer: it drains the cue queue,
// turns cues into spoken lines, and publishes them back onto the
// session's event channel for the audio front end.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nightdial/sunrise-engine/internal/services/events"
	"github.com/nightdial/sunrise-engine/internal/services/queue"
	"github.com/nightdial/sunrise-engine/pkg/engine"
	queuePkg "github.com/nightdial/sunrise-engine/pkg/queue"
)

const workerTimeout = 5 * time.Second

// Worker processes narration cues from the queue
type Worker struct {
	id          string
	queue       *queue.NarrationQueue
	renderer    *Renderer
	broadcaster *events.Broadcaster
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(narrationQueue *queue.NarrationQueue, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       narrationQueue,
		renderer:    NewRenderer(),
		broadcaster: events.NewBroadcaster(redisClient, log),
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing cues from the queue
func (w *Worker) Start() error {
	w.log.Info("Narration worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Narration worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextCue(); err != nil {
				w.log.Error("Error processing cue", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Narration worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextCue pulls the next cue from the queue and narrates it
func (w *Worker) processNextCue() error {
	// Block waiting for the next cue, timing out so shutdown is seen.
	ctx, cancel := context.WithTimeout(w.ctx, workerTimeout+time.Second)
	defer cancel()

	cue, err := w.queue.BlockingDequeue(ctx, workerTimeout)
	if err != nil {
		if w.ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to dequeue cue: %w", err)
	}
	if cue == nil {
		// Queue is empty, timeout occurred. This is normal.
		return nil
	}

	line := w.renderer.Render(cue)
	if line == "" {
		w.log.Debug("Cue rendered to nothing, skipping",
			"worker_id", w.id, "cue_id", cue.CueID, "type", cue.Type)
		return nil
	}

	w.log.Info("Narrating cue",
		"worker_id", w.id,
		"cue_id", cue.CueID,
		"type", cue.Type,
		"session_id", cue.SessionID.String(),
		"interrupt", cue.Interrupt,
	)

	ev := engine.Event{
		Type:      engine.EventNarration,
		SessionID: cue.SessionID.String(),
		Interrupt: cue.Interrupt,
		Data: map[string]any{
			"line":   line,
			"cue_id": cue.CueID,
			"queued": cue.EnqueuedAt,
		},
	}
	if err := w.broadcaster.Publish(ctx, ev); err != nil {
		return fmt.Errorf("failed to publish narration: %w", err)
	}
	return nil
}

// ProcessCue renders and publishes a single cue, used for inline
// narration when no separate worker process is running.
func ProcessCue(ctx context.Context, b *events.Broadcaster, cue *queuePkg.Cue) error {
	line := NewRenderer().Render(cue)
	if line == "" {
		return nil
	}
	return b.Publish(ctx, engine.Event{
		Type:      engine.EventNarration,
		SessionID: cue.SessionID.String(),
		Interrupt: cue.Interrupt,
		Data:      map[string]any{"line": line, "cue_id": cue.CueID},
	})
}
