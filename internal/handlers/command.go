package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nightdial/sunrise-engine/internal/logger"
	"github.com/nightdial/sunrise-engine/internal/services"
	"github.com/nightdial/sunrise-engine/pkg/engine"
	"github.com/nightdial/sunrise-engine/pkg/textfilter"
)

// CommandRequest is one transcribed player utterance
type CommandRequest struct {
	Transcript string `json:"transcript"`

	// Confidence is the speech recognizer's own confidence, not the
	// parser's. Zero means the recognizer didn't report one.
	Confidence float64 `json:"confidence,omitempty"`
}

// TickRequest advances the game clock, driven by the front end's timer
type TickRequest struct {
	Minutes int `json:"minutes,omitempty"`
}

// CommandHandler applies transcripts and clock ticks to a session.
// Routes:
// POST /v1/sessions/{id}/commands - Apply a voice transcript
// POST /v1/sessions/{id}/tick     - Advance the game clock
type CommandHandler struct {
	store     services.SessionStore
	sinks     []engine.Sink
	engineCfg engine.Config
	scrubber  *textfilter.Scrubber
	logger    *slog.Logger
}

func NewCommandHandler(store services.SessionStore, cfg engine.Config, logger *slog.Logger, sinks ...engine.Sink) *CommandHandler {
	return &CommandHandler{
		store:     store,
		sinks:     sinks,
		engineCfg: cfg,
		scrubber:  textfilter.NewScrubber(),
		logger:    logger,
	}
}

func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	sessionID, action, ok := parseSessionAction(r.URL.Path)
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	gs, err := h.store.LoadSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", sessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if gs == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	eng := engine.New(gs, logger.WithSessionID(h.logger, sessionID.String()), h.engineCfg)
	for _, s := range h.sinks {
		eng.AddSink(s)
	}

	switch action {
	case "commands":
		h.handleCommand(w, r, eng, sessionID)
	case "tick":
		h.handleTick(w, r, eng, sessionID)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown session action")
		return
	}

	if err := h.store.SaveSession(r.Context(), sessionID, gs); err != nil {
		h.logger.Error("Failed to save session after update", "session_id", sessionID, "error", err)
	}
}

func (h *CommandHandler) handleCommand(w http.ResponseWriter, r *http.Request, eng *engine.Engine, sessionID uuid.UUID) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	transcript := h.scrubber.Scrub(req.Transcript)
	outcome := eng.HandleTranscript(r.Context(), transcript, req.Confidence)

	h.logger.Info("Transcript handled",
		"session_id", sessionID,
		"action", outcome.Parsed.Action,
		"match_type", outcome.Parsed.MatchType,
		"confidence", outcome.Parsed.Confidence,
		"applied", outcome.Applied,
		"dropped", outcome.Dropped,
	)

	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		h.logger.Error("Failed to encode command response", "error", err)
	}
}

func (h *CommandHandler) handleTick(w http.ResponseWriter, r *http.Request, eng *engine.Engine, sessionID uuid.UUID) {
	var req TickRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	minutes := req.Minutes
	if minutes <= 0 {
		minutes = h.engineCfg.MinutesPerTick
	}

	eng.AdvanceTime(r.Context(), minutes)

	if err := json.NewEncoder(w).Encode(eng.Snapshot()); err != nil {
		h.logger.Error("Failed to encode tick response", "error", err)
	}
}

// parseSessionAction splits "/v1/sessions/{id}/{action}" into its parts
func parseSessionAction(path string) (uuid.UUID, string, bool) {
	path = strings.TrimPrefix(path, "/v1/sessions/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, parts[1], true
}

