package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/nightdial/sunrise-engine/internal/services/queue"
	queuemodels "github.com/nightdial/sunrise-engine/pkg/queue"
)

// Pushes a sample narration cue onto the shared queue so a running
// worker can be exercised without driving the full API.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client, err := queue.NewClient(redisURL, logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer client.Close()

	ctx := context.Background()
	narrationQueue := queue.NewNarrationQueue(client)

	sessionID := uuid.New()
	if raw := os.Getenv("SESSION_ID"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			log.Fatal("Invalid SESSION_ID:", err)
		}
		sessionID = parsed
	}

	cues := []*queuemodels.Cue{
		{
			Type:      queuemodels.CueFeedback,
			SessionID: sessionID,
			Text:      "You crouch behind the couch and hold your breath.",
			Location:  "living_room",
		},
		{
			Type:      queuemodels.CueNightEvent,
			SessionID: sessionID,
			Text:      "A slow knock lands on the front door. Then another.",
			Location:  "hallway",
			Interrupt: true,
		},
		{
			Type:      queuemodels.CueTransition,
			SessionID: sessionID,
			FearState: "scared",
			Location:  "hallway",
		},
	}

	for _, cue := range cues {
		if err := narrationQueue.Enqueue(ctx, cue); err != nil {
			log.Fatal("Failed to enqueue cue:", err)
		}
		fmt.Printf("Enqueued %s cue %s\n", cue.Type, cue.CueID)
	}

	depth, err := narrationQueue.Depth(ctx)
	if err != nil {
		log.Fatal("Failed to read queue depth:", err)
	}
	fmt.Printf("Queue depth is now %d\n", depth)
	fmt.Printf("Session ID: %s\n", sessionID)
	fmt.Println("Start the worker and subscribe to the session's event stream to see the rendered lines.")
}
