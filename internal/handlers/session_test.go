package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/nightdial/sunrise-engine/internal/services"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func TestSessionHandler_Create(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewSessionHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var snap state.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if snap.ID == uuid.Nil {
		t.Error("Expected generated session ID")
	}
	if snap.CurrentTime != state.NightStart {
		t.Errorf("Expected clock at %q, got %q", state.NightStart, snap.CurrentTime)
	}
	if snap.FearLevel != 0 || snap.Health != 100 {
		t.Errorf("Expected fresh fear/health, got %v/%v", snap.FearLevel, snap.Health)
	}
	if len(snap.Inventory) == 0 {
		t.Error("Expected starter inventory")
	}

	// Session must be persisted
	saved, err := store.LoadSession(req.Context(), snap.ID)
	if err != nil || saved == nil {
		t.Errorf("Session not persisted: %v", err)
	}
}

func TestSessionHandler_ReadAndDelete(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewSessionHandler(store, testLogger())

	gs := state.NewGameState()
	gs.UpdateFear(30)
	if err := store.SaveSession(t.Context(), gs.ID, gs); err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+gs.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var snap state.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if snap.FearLevel != 30 || snap.FearState != state.FearScared {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+gs.ID.String(), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	saved, _ := store.LoadSession(req.Context(), gs.ID)
	if saved != nil {
		t.Error("Session not deleted")
	}
}

func TestSessionHandler_Errors(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := NewSessionHandler(store, testLogger())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"invalid id", http.MethodGet, "/v1/sessions/not-a-uuid", http.StatusBadRequest},
		{"missing id on get", http.MethodGet, "/v1/sessions", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/v1/sessions/" + uuid.NewString(), http.StatusNotFound},
		{"method not allowed", http.MethodPut, "/v1/sessions", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("Expected error message in response")
			}
		})
	}
}
