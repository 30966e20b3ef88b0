package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultIdleTTL is how long a session may sit untouched before a sweep may
// reclaim it. Browser sessions rarely outlive a day.
const defaultIdleTTL = 24 * time.Hour

// Manager is the in-memory session registry, keyed by UUID.
//
// Sessions never touch the database; when the process restarts they are
// gone, exactly like the browser-tab state they model. The registry sweeps
// idle sessions on creation so an abandoned-tab pileup cannot grow the map
// forever.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
}

// NewManager creates an empty registry with the default idle TTL.
func NewManager() *Manager {
	return NewManagerWithTTL(defaultIdleTTL)
}

// NewManagerWithTTL creates a registry with a custom idle TTL (tests use
// tiny values to exercise the sweep).
func NewManagerWithTTL(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idleTTL:  ttl,
	}
}

// Create registers a new session in its initial state and returns it.
// Stale sessions are swept opportunistically here — creation is rare enough
// that the linear scan doesn't matter.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString())

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleTTL)
	for id, existing := range m.sessions {
		if existing.idleSince().Before(cutoff) {
			delete(m.sessions, id)
		}
	}

	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID, or (nil, false).
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len reports how many sessions are registered. Used by tests.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
