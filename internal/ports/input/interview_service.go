package input

import (
	"context"

	"sehatnama/internal/domain"
)

// InterviewService interface - Input port (use case)
// Session lifecycle of a sectioned history interview
type InterviewService interface {
	// Start creates a session and returns the first agent reply
	Start(ctx context.Context, options domain.StartOptions) (*domain.StartResult, error)

	// Send runs one controller step for an inbound utterance
	Send(ctx context.Context, sessionID, utterance string) (*domain.SendResult, error)

	// SendStream runs the same step as Send, passing reply text deltas to onToken
	SendStream(ctx context.Context, sessionID, utterance string, onToken func(string)) (*domain.SendResult, error)

	// History renders the dialogue log in the requested view
	History(ctx context.Context, sessionID string, view domain.HistoryView) ([]domain.HistoryEntry, error)

	// Snapshot returns the current progress of a session
	Snapshot(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error)

	// Abandon discards a session
	Abandon(ctx context.Context, sessionID string) error
}

// ArchiveService interface - Input port (use case)
// Read access to finished interviews
type ArchiveService interface {
	GetArchived(ctx context.Context, sessionID string) (*domain.ArchiveSummary, error)
	ListArchived(ctx context.Context, query domain.ArchiveQuery) (*domain.ArchiveListResponse, error)
}
