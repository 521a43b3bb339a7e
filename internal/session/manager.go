package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager maps session ids to live sessions. Sessions are created on
// first use, destroyed on reset, and swept once idle past the TTL.
// Sessions are independent; no state is shared between them.
type Manager struct {
	cfg Config
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions analyze with cfg.
func NewManager(cfg Config, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		cfg:      cfg,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, minting a fresh id when empty.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.touch()
			return s
		}
	} else {
		id = uuid.NewString()
	}

	s := newSession(id, m.cfg)
	m.sessions[id] = s
	return s
}

// Get returns an existing session without creating one.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	s, ok := m.sessions[id]
	if ok {
		s.touch()
	}
	return s, ok
}

// Destroy removes a session entirely. Unknown ids are a no-op.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

func (m *Manager) sweepLocked() {
	cutoff := time.Now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.seen().Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
