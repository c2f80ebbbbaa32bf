package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/nightdial/sunrise-engine/internal/services"
	"github.com/nightdial/sunrise-engine/pkg/command"
	"github.com/nightdial/sunrise-engine/pkg/engine"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

func seedSession(t *testing.T, store *services.MockSessionStore) *state.GameState {
	t.Helper()
	gs := state.NewGameState()
	if err := store.SaveSession(t.Context(), gs.ID, gs); err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	return gs
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCommandHandler_Transcript(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewCommandHandler(store, engine.Config{Seed: 1}, testLogger())
	gs := seedSession(t, store)

	rr := postJSON(t, handler, "/v1/sessions/"+gs.ID.String()+"/commands",
		CommandRequest{Transcript: "quick duck behind the couch", Confidence: 0.95})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var outcome engine.Outcome
	if err := json.NewDecoder(rr.Body).Decode(&outcome); err != nil {
		t.Fatalf("Failed to decode outcome: %v", err)
	}
	if outcome.Parsed.Action != command.ActionHide {
		t.Errorf("Expected hide, got %q", outcome.Parsed.Action)
	}
	if !outcome.Applied {
		t.Errorf("Expected command applied, got %+v", outcome)
	}

	// The mutated session must be saved back.
	saved, err := store.LoadSession(t.Context(), gs.ID)
	if err != nil || saved == nil {
		t.Fatalf("Session missing after command: %v", err)
	}
	if len(saved.CommandsIssued) != 1 {
		t.Errorf("Expected 1 recorded command, got %d", len(saved.CommandsIssued))
	}
}

func TestCommandHandler_ScrubsTranscript(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewCommandHandler(store, engine.Config{Seed: 1}, testLogger())
	gs := seedSession(t, store)

	rr := postJSON(t, handler, "/v1/sessions/"+gs.ID.String()+"/commands",
		CommandRequest{Transcript: "[inaudible] h-h-hide hide"})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var outcome engine.Outcome
	if err := json.NewDecoder(rr.Body).Decode(&outcome); err != nil {
		t.Fatalf("Failed to decode outcome: %v", err)
	}
	if outcome.Parsed.Action != command.ActionHide || outcome.Parsed.MatchType != command.MatchExact {
		t.Errorf("Scrubbed transcript should parse exactly, got %+v", outcome.Parsed)
	}
}

func TestCommandHandler_SessionNotFound(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewCommandHandler(store, engine.Config{Seed: 1}, testLogger())

	rr := postJSON(t, handler, "/v1/sessions/"+uuid.NewString()+"/commands",
		CommandRequest{Transcript: "hide"})

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestCommandHandler_InvalidBody(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewCommandHandler(store, engine.Config{Seed: 1}, testLogger())
	gs := seedSession(t, store)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/sessions/"+gs.ID.String()+"/commands", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCommandHandler_Tick(t *testing.T) {
	store := services.NewMockSessionStore()
	cfg := engine.Config{Seed: 1, MinutesPerTick: 5}
	handler := NewCommandHandler(store, cfg, testLogger())
	gs := seedSession(t, store)

	rr := postJSON(t, handler, "/v1/sessions/"+gs.ID.String()+"/tick", TickRequest{Minutes: 30})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var snap state.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.CurrentTime != "23:30" {
		t.Errorf("Expected clock at 23:30, got %q", snap.CurrentTime)
	}
}

func TestCommandHandler_MethodNotAllowed(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewCommandHandler(store, engine.Config{Seed: 1}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString()+"/commands", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}
