// Package events distributes engine events over Redis Pub/Sub so the
// SSE layer and the narration worker can run in separate processes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/nightdial/sunrise-engine/pkg/engine"
)

// Broadcaster publishes engine events to a per-session Redis channel.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// Broadcaster is wired into the engine as an event sink.
var _ engine.Sink = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

func channelFor(sessionID string) string {
	return fmt.Sprintf("session-events:%s", sessionID)
}

// Publish sends one engine event to the session's channel.
func (b *Broadcaster) Publish(ctx context.Context, ev engine.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "type", ev.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := channelFor(ev.SessionID)
	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", ev.Type,
		"interrupt", ev.Interrupt,
	)
	return nil
}

// Subscribe listens on a session's channel and delivers decoded events
// until the context is cancelled. The returned cancel function closes
// the subscription and the channel.
func (b *Broadcaster) Subscribe(ctx context.Context, sessionID string) (<-chan engine.Event, func()) {
	sub := b.redisClient.Subscribe(ctx, channelFor(sessionID))
	out := make(chan engine.Event, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev engine.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("Dropping undecodable event", "error", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
