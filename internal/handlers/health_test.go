package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nightdial/sunrise-engine/internal/services"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupStore     func() services.SessionStore
		expectedStatus int
		expectedHealth string
		expectedStore  string
	}{
		{
			name: "healthy",
			setupStore: func() services.SessionStore {
				return services.NewMockSessionStore()
			},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedStore:  "healthy",
		},
		{
			name: "unhealthy store",
			setupStore: func() services.SessionStore {
				store := services.NewMockSessionStore()
				store.PingErr = errors.New("connection failed")
				return store
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
			expectedStore:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupStore(), testLogger())

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", ct)
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedHealth, response.Status)
			}
			if response.Service != "sunrise-engine" {
				t.Errorf("Expected service 'sunrise-engine', got '%s'", response.Service)
			}

			storeComponent, exists := response.Components["store"]
			if !exists {
				t.Error("Expected store component in response")
			} else if storeComponent != tt.expectedStore {
				t.Errorf("Expected store status '%s', got '%v'", tt.expectedStore, storeComponent)
			}

			if time.Since(response.Timestamp) > time.Second {
				t.Errorf("Health check timestamp seems old: %v", response.Timestamp)
			}
		})
	}
}
