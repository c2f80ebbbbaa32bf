package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

// MockSessionStore is an in-memory SessionStore for tests
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*state.GameState

	PingErr   error
	SaveErr   error
	LoadErr   error
	DeleteErr error
}

var _ SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[uuid.UUID]*state.GameState),
	}
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockSessionStore) Close() error {
	return nil
}

func (m *MockSessionStore) SaveSession(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = gs
	return nil
}

func (m *MockSessionStore) LoadSession(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
