package output

import (
	"context"

	"sehatnama/internal/domain"
)

// InterviewArchive interface - Output port
// Durable storage for finished interviews only.
type InterviewArchive interface {
	// SaveInterview stores a finished interview once. created is false when the
	// session had already been archived.
	SaveInterview(ctx context.Context, interview domain.ArchivedInterview) (created bool, err error)

	// GetInterview returns the archived interview of a session
	GetInterview(ctx context.Context, sessionID string) (*domain.ArchivedInterview, error)

	// ListInterviews returns a page of archived interviews, newest first unless Asc is set
	ListInterviews(ctx context.Context, query domain.ArchiveQuery) ([]domain.ArchivedInterview, int64, error)
}
