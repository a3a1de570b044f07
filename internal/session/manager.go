// Package session holds live sessions in memory. Sessions are ephemeral:
// there is no cross-restart persistence, and abandoned sessions are pruned
// after a TTL of inactivity.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
)

// ErrNotFound indicates an unknown or already-pruned session ID.
var ErrNotFound = errors.New("session not found")

// Manager is a uuid-keyed in-memory session store.
//
// The map is guarded for concurrent HTTP handlers; each Session itself is
// owned by the single request flow currently driving it.
type Manager struct {
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewManager creates a session store. Pass a nil clock for real time.
func NewManager(ttl time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		ttl:      ttl,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		sessions: make(map[string]*domain.Session),
	}
}

// Create registers a new empty session and returns it.
func (m *Manager) Create() *domain.Session {
	sess := domain.NewSession(uuid.NewString())

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SessionsCreated.Inc()
	m.metrics.SessionsActive.Set(float64(count))
	m.logger.Info("session created", "session_id", sess.ID)
	return sess
}

// Get returns a live session by ID and refreshes its activity timestamp.
func (m *Manager) Get(id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.Touch()
	return sess, nil
}

// Delete discards a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SessionsActive.Set(float64(count))
}

// Prune removes sessions idle past the TTL and reports how many were removed.
func (m *Manager) Prune() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.Lock()
	var pruned int
	for id, sess := range m.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if pruned > 0 {
		m.metrics.SessionsPruned.Add(float64(pruned))
		m.metrics.SessionsActive.Set(float64(count))
		m.logger.Info("pruned expired sessions", "count", pruned, "ttl", m.ttl)
	}
	return pruned
}

// Run prunes on the given interval until the context is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	m.ready.Store(true)
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.Prune()
		}
	}
}

// CheckReadiness reports whether the manager's prune loop has started.
func (m *Manager) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("session manager not started")
	}
	return nil
}
