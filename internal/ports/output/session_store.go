package output

import "sehatnama/internal/domain"

// SessionStore interface - Output port
// Holds in-progress interviews. Implementations must be thread-safe for concurrent access.
type SessionStore interface {
	// GetSession retrieves a session by identifier.
	// Returns nil when the session does not exist or has expired; expired sessions are
	// removed on read. The session's access time is refreshed on a hit.
	// Returns an error only if there is a storage access failure.
	GetSession(sessionID string) (*domain.InterviewSession, error)

	// CreateSession stores a new session unless a live session with the same identifier exists.
	// Returns false and the existing session when the identifier is taken.
	CreateSession(session *domain.InterviewSession) (*domain.InterviewSession, bool, error)

	// UpdateSession creates or replaces a session
	UpdateSession(session *domain.InterviewSession) error

	// DeleteSession removes a session. Deleting a missing session is not an error.
	DeleteSession(sessionID string) error

	// PurgeExpired removes every idle session and returns how many were removed
	PurgeExpired() int
}
