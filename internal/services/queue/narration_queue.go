package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nightdial/sunrise-engine/pkg/queue"
)

// cuesKey is the global list the narration worker drains. Interrupt
// cues go to the front so they preempt routine narration.
const cuesKey = "narration-cues"

// NarrationQueue manages pending narration cues for game sessions
type NarrationQueue struct {
	client *Client
}

func NewNarrationQueue(client *Client) *NarrationQueue {
	return &NarrationQueue{
		client: client,
	}
}

// Enqueue adds a cue for the narration worker. Interrupt cues jump the
// line; everything else waits its turn.
func (nq *NarrationQueue) Enqueue(ctx context.Context, cue *queue.Cue) error {
	if cue.CueID == "" {
		cue.CueID = uuid.NewString()
	}
	if cue.EnqueuedAt.IsZero() {
		cue.EnqueuedAt = time.Now()
	}

	data, err := cue.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize cue: %w", err)
	}

	if cue.Interrupt {
		err = nq.client.rdb.LPush(ctx, cuesKey, data).Err()
	} else {
		err = nq.client.rdb.RPush(ctx, cuesKey, data).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue cue: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next cue, or nil if the queue is empty
func (nq *NarrationQueue) Dequeue(ctx context.Context) (*queue.Cue, error) {
	result, err := nq.client.rdb.LPop(ctx, cuesKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue cue: %w", err)
	}

	cue, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse cue: %w", err)
	}
	return cue, nil
}

// BlockingDequeue blocks until a cue is available, then returns it.
// timeout of zero waits forever.
func (nq *NarrationQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*queue.Cue, error) {
	result, err := nq.client.rdb.BLPop(ctx, timeout, cuesKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue cue: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected BLPOP result: %v", result)
	}

	cue, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse cue: %w", err)
	}
	return cue, nil
}

// Depth returns the number of queued cues
func (nq *NarrationQueue) Depth(ctx context.Context) (int, error) {
	count, err := nq.client.rdb.LLen(ctx, cuesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all queued cues
func (nq *NarrationQueue) Clear(ctx context.Context) error {
	if err := nq.client.rdb.Del(ctx, cuesKey).Err(); err != nil {
		return fmt.Errorf("failed to clear cue queue: %w", err)
	}
	return nil
}
