package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nightdial/sunrise-engine/internal/services/events"
)

const heartbeatInterval = 15 * time.Second

// EventsHandler streams session events over SSE.
// Route: GET /v1/sessions/{id}/events
type EventsHandler struct {
	broadcaster *events.Broadcaster
	logger      *slog.Logger
}

func NewEventsHandler(broadcaster *events.Broadcaster, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	sessionID, action, ok := parseSessionAction(r.URL.Path)
	if !ok || action != "events" {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, h.logger, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Info("SSE client connected", "session_id", sessionID)
	h.stream(w, r, flusher, sessionID)
	h.logger.Info("SSE client disconnected", "session_id", sessionID)
}

func (h *EventsHandler) stream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, sessionID uuid.UUID) {
	ctx := r.Context()
	eventCh, unsub := h.broadcaster.Subscribe(ctx, sessionID.String())
	defer unsub()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-heartbeat.C:
			// SSE comment line keeps proxies from closing the stream.
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case ev, open := <-eventCh:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("Failed to marshal SSE event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sseEventName(string(ev.Type)), data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// sseEventName flattens dotted event types for the EventSource API
func sseEventName(t string) string {
	return strings.ReplaceAll(t, ".", "-")
}
