package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}

// SessionStore defines the interface for session persistence. A session
// is one night: the API is stateless between requests, so every command
// loads the session, applies it, and writes it back.
type SessionStore interface {
	HealthChecker
	Closer

	// SaveSession persists a session keyed by its ID
	SaveSession(ctx context.Context, id uuid.UUID, gs *state.GameState) error

	// LoadSession retrieves a session by ID.
	// Returns nil if the session doesn't exist
	LoadSession(ctx context.Context, id uuid.UUID) (*state.GameState, error)

	// DeleteSession removes a session by ID
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
