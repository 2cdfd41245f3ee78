package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

// Compile-time check to ensure MemorySessionStore implements SessionStore interface
var _ output.SessionStore = (*MemorySessionStore)(nil)

// MemorySessionStore struct - Output adapter for in-memory interview sessions
// Uses sync.Map for thread-safe concurrent access. Idle sessions are removed lazily
// on read and by the janitor started with Start.
type MemorySessionStore struct {
	sessions sync.Map
	timeout  time.Duration
}

// NewMemorySessionStore creates a new in-memory session store.
// timeout: idle duration after which sessions expire
func NewMemorySessionStore(timeout time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		timeout: timeout,
	}
}

// GetTimeout returns the idle timeout given to new sessions
func (m *MemorySessionStore) GetTimeout() time.Duration {
	return m.timeout
}

// GetSession retrieves a session by identifier.
// Returns nil if the session does not exist or has expired. Expired sessions are deleted.
func (m *MemorySessionStore) GetSession(sessionID string) (*domain.InterviewSession, error) {
	value, exists := m.sessions.Load(sessionID)
	if !exists {
		return nil, nil
	}

	session, ok := value.(*domain.InterviewSession)
	if !ok {
		m.sessions.Delete(sessionID)
		return nil, nil
	}

	if session.IsExpired() {
		m.sessions.Delete(sessionID)
		return nil, nil
	}

	session.Touch()

	return session, nil
}

// CreateSession stores the session unless a live one holds the identifier.
// An expired holder is replaced.
func (m *MemorySessionStore) CreateSession(session *domain.InterviewSession) (*domain.InterviewSession, bool, error) {
	session.Touch()
	for {
		value, loaded := m.sessions.LoadOrStore(session.ID, session)
		if !loaded {
			return session, true, nil
		}
		existing, ok := value.(*domain.InterviewSession)
		if ok && !existing.IsExpired() {
			existing.Touch()
			return existing, false, nil
		}
		m.sessions.CompareAndDelete(session.ID, value)
	}
}

// UpdateSession creates or replaces a session and refreshes its access time
func (m *MemorySessionStore) UpdateSession(session *domain.InterviewSession) error {
	session.Touch()
	m.sessions.Store(session.ID, session)
	return nil
}

// DeleteSession removes a session. Idempotent.
func (m *MemorySessionStore) DeleteSession(sessionID string) error {
	m.sessions.Delete(sessionID)
	return nil
}

// PurgeExpired removes every expired session
func (m *MemorySessionStore) PurgeExpired() int {
	purged := 0
	m.sessions.Range(func(key, value interface{}) bool {
		session, ok := value.(*domain.InterviewSession)
		if !ok || session.IsExpired() {
			m.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged
}

// Len returns the number of stored sessions, expired ones included
func (m *MemorySessionStore) Len() int {
	n := 0
	m.sessions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Start runs the janitor until ctx is done
func (m *MemorySessionStore) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.PurgeExpired(); n > 0 {
					logrus.Infof("Purged %d idle interview sessions", n)
				}
			}
		}
	}()
}
