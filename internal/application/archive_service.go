package application

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/input"
	"sehatnama/internal/ports/output"
)

var _ input.ArchiveService = (*ArchiveService)(nil)

const (
	defaultArchivePage    = 1
	defaultArchivePerPage = 20
	maxArchivePerPage     = 100
)

// ArchiveService struct - Application service for finished interviews
type ArchiveService struct {
	repo output.InterviewArchive
}

// NewArchiveService func - repo may be nil when the archive is disabled
func NewArchiveService(repo output.InterviewArchive) *ArchiveService {
	return &ArchiveService{
		repo: repo,
	}
}

// GetArchived func - Use case: one finished interview with its transcript
func (s *ArchiveService) GetArchived(ctx context.Context, sessionID string) (*domain.ArchiveSummary, error) {
	if s.repo == nil {
		return nil, domain.ErrFeatureDisabled
	}
	interview, err := s.repo.GetInterview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := toSummary(*interview, true)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return summary, nil
}

// ListArchived func - Use case: page through finished interviews
func (s *ArchiveService) ListArchived(ctx context.Context, query domain.ArchiveQuery) (*domain.ArchiveListResponse, error) {
	if s.repo == nil {
		return nil, domain.ErrFeatureDisabled
	}

	page := defaultArchivePage
	if query.Page != nil && *query.Page > 0 {
		page = *query.Page
	}
	perPage := defaultArchivePerPage
	if query.Limit != nil && *query.Limit > 0 {
		perPage = *query.Limit
	}
	if perPage > maxArchivePerPage {
		perPage = maxArchivePerPage
	}
	query.Page = &page
	query.Limit = &perPage

	interviews, total, err := s.repo.ListInterviews(ctx, query)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ArchiveSummary, 0, len(interviews))
	for _, interview := range interviews {
		summary, err := toSummary(interview, false)
		if err != nil {
			logrus.Warnf("Skipping archived interview %s: %v", interview.SessionID, err)
			continue
		}
		summaries = append(summaries, *summary)
	}

	return &domain.ArchiveListResponse{
		Interviews:  summaries,
		CurrentPage: page,
		PerPage:     perPage,
		TotalItem:   total,
	}, nil
}

func toSummary(interview domain.ArchivedInterview, withTranscript bool) (*domain.ArchiveSummary, error) {
	summary := &domain.ArchiveSummary{
		SessionID:   interview.SessionID,
		Language:    interview.Language,
		TurnCount:   interview.TurnCount,
		StartedAt:   interview.StartedAt,
		CompletedAt: interview.CompletedAt,
	}
	if interview.ID != nil {
		summary.ID = interview.ID.String()
	}
	if err := sonic.UnmarshalString(interview.Record, &summary.Record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if withTranscript {
		if err := sonic.UnmarshalString(interview.Transcript, &summary.Transcript); err != nil {
			return nil, fmt.Errorf("failed to decode transcript: %w", err)
		}
	}
	return summary, nil
}
