package domain

import (
	"sync"
	"sync/atomic"
	"time"
)

// DialogueTurn is one immutable entry of the dialogue log
type DialogueTurn struct {
	Role      DialogueRole `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
}

// InterviewSession is the conversation state of one interview.
// Fields are mutated only while the session lock is held.
type InterviewSession struct {
	ID              string
	Turns           []DialogueTurn
	CurrentSection  SectionID
	SectionComplete bool
	Finished        bool
	Language        Language // empty until the first patient turn
	Record          Record
	State           InterviewState
	CreatedAt       time.Time
	// AgentCalls counts agent invocations over the whole interview
	AgentCalls int
	// Discarded is set under the lock when the session is abandoned; a step that
	// was waiting on the lock must not act on it
	Discarded bool

	mu         sync.Mutex
	lastAccess atomic.Int64
	timeout    time.Duration
}

// NewInterviewSession creates a session positioned on the first section
func NewInterviewSession(id string, first SectionID, timeout time.Duration) *InterviewSession {
	now := time.Now()
	s := &InterviewSession{
		ID:             id,
		Turns:          make([]DialogueTurn, 0),
		CurrentSection: first,
		Record:         NewRecord(),
		State:          StateAwaitingAgent,
		CreatedAt:      now,
		timeout:        timeout,
	}
	s.lastAccess.Store(now.UnixNano())
	return s
}

// Lock serializes controller steps on this session
func (s *InterviewSession) Lock() {
	s.mu.Lock()
}

// Unlock releases the session
func (s *InterviewSession) Unlock() {
	s.mu.Unlock()
}

// Touch records an access now
func (s *InterviewSession) Touch() {
	s.TouchAt(time.Now())
}

// TouchAt records an access at t
func (s *InterviewSession) TouchAt(t time.Time) {
	s.lastAccess.Store(t.UnixNano())
}

// LastAccessTime returns the time of the last access
func (s *InterviewSession) LastAccessTime() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// IsExpired checks if the session has been idle longer than its timeout.
// A zero timeout never expires.
func (s *InterviewSession) IsExpired() bool {
	if s.timeout <= 0 {
		return false
	}
	return time.Since(s.LastAccessTime()) > s.timeout
}

// AppendTurn adds a turn to the end of the dialogue log
func (s *InterviewSession) AppendTurn(role DialogueRole, content string) {
	s.Turns = append(s.Turns, DialogueTurn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// GetHistory returns a copy of the dialogue log
func (s *InterviewSession) GetHistory() []DialogueTurn {
	history := make([]DialogueTurn, len(s.Turns))
	copy(history, s.Turns)
	return history
}

// Snapshot returns a detached view of the session for callers
func (s *InterviewSession) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		SessionID:  s.ID,
		Section:    s.CurrentSection,
		State:      s.State,
		Record:     s.Record.Clone(),
		IsComplete: s.Finished,
		Language:   s.Language,
		Turns:      len(s.Turns),
		CreatedAt:  s.CreatedAt,
	}
}
