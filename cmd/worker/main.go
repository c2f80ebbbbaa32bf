package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nightdial/sunrise-engine/internal/config"
	"github.com/nightdial/sunrise-engine/internal/logger"
	"github.com/nightdial/sunrise-engine/internal/services/queue"
	"github.com/nightdial/sunrise-engine/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Sunrise Engine narration worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()
	log.Info("Redis connection established")

	narrationQueue := queue.NewNarrationQueue(queue.NewClientFromRedis(redisClient, log))

	w := worker.New(narrationQueue, redisClient, log, os.Getenv("WORKER_ID"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Narration worker started, waiting for cues...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give the worker time to finish the current cue.
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
