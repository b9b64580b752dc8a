package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/errors"
	"github.com/kansouapp/kansou-server/internal/id"
)

// sweepInterval controls how often idle sessions are collected.
const sweepInterval = 5 * time.Minute

// Manager owns the session registry and sweeps idle sessions past their TTL.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *slog.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts the idle sweep loop.
func NewManager(ttl time.Duration, logger *slog.Logger) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Create registers a new session in the initial search state.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       id.MustGenerate("sess"),
		State:    StateSearch,
		Selected: -1,
		LastSeen: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "id", s.ID)
	return s
}

// Get returns a session snapshot by ID and refreshes its idle clock.
func (m *Manager) Get(sessionID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, errors.NotFoundf("session %s not found or expired", sessionID)
	}
	s.LastSeen = time.Now()
	return *s, nil
}

// SetResults records a search outcome on a session.
func (m *Manager) SetResults(sessionID string, q Query, hits []domain.SearchHit) error {
	return m.with(sessionID, func(s *Session) error {
		s.SetResults(q, hits)
		return nil
	})
}

// Select moves a session to the detail view and returns the selected book's
// corpus index.
func (m *Manager) Select(sessionID string, resultIndex int) (int, error) {
	var bookIndex int
	err := m.with(sessionID, func(s *Session) error {
		var err error
		bookIndex, err = s.Select(resultIndex)
		return err
	})
	return bookIndex, err
}

// Back performs the back transition and returns the resulting state.
func (m *Manager) Back(sessionID string) (State, error) {
	var state State
	err := m.with(sessionID, func(s *Session) error {
		state = s.Back()
		return nil
	})
	return state, err
}

// Stop terminates the sweep loop.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// with runs fn on a live session under the manager lock.
func (m *Manager) with(sessionID string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return errors.NotFoundf("session %s not found or expired", sessionID)
	}
	s.LastSeen = time.Now()
	return fn(s)
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var swept int
	for sid, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, sid)
			swept++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if swept > 0 {
		m.logger.Debug("idle sessions swept", "swept", swept, "remaining", remaining)
	}
}
