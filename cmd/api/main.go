package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nightdial/sunrise-engine/internal/config"
	"github.com/nightdial/sunrise-engine/internal/handlers"
	"github.com/nightdial/sunrise-engine/internal/logger"
	"github.com/nightdial/sunrise-engine/internal/middleware"
	"github.com/nightdial/sunrise-engine/internal/services"
	"github.com/nightdial/sunrise-engine/internal/services/events"
	"github.com/nightdial/sunrise-engine/internal/services/queue"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Sunrise Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	store := services.NewRedisStore(cfg.RedisURL, cfg.SessionTTL, log)
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()

	if err := store.WaitForConnection(storeCtx); err != nil {
		log.Error("Failed to connect to session store", "error", err)
		os.Exit(1)
	}
	log.Info("Session store connection established")

	broadcaster := events.NewBroadcaster(store.GetClient(), log)
	narrationQueue := queue.NewNarrationQueue(queue.NewClientFromRedis(store.GetClient(), log))
	cueSink := queue.NewCueSink(narrationQueue)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, log)
	commandHandler := handlers.NewCommandHandler(store, cfg.Engine(), log, broadcaster, cueSink)
	eventsHandler := handlers.NewEventsHandler(broadcaster, log)

	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", &handlers.SessionRouter{
		Sessions: sessionHandler,
		Commands: commandHandler,
		Events:   eventsHandler,
	})

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout omitted so the SSE stream stays open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing session store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
