package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sehatnama/internal/domain"
	gormdriver "sehatnama/pkg/database_driver/gorm"
)

func newTestRepository(t *testing.T) *ArchiveRepository {
	t.Helper()
	db, err := gormdriver.ConnectToSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { gormdriver.Disconnect(db) })

	repo, err := NewArchiveRepository(db)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return repo
}

func archived(sessionID, language string, completedAt time.Time) domain.ArchivedInterview {
	return domain.ArchivedInterview{
		SessionID:   sessionID,
		Language:    language,
		Record:      `{"demographics":{"name":"Ali"}}`,
		Transcript:  `[]`,
		TurnCount:   4,
		CompletedAt: &completedAt,
	}
}

// TestSaveInterviewStoresOnce tests that a session is archived exactly once
func TestSaveInterviewStoresOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.SaveInterview(ctx, archived("s-1", "english", time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected first save to create a row")
	}

	created, err = repo.SaveInterview(ctx, archived("s-1", "english", time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected second save to be a no-op")
	}

	_, total, err := repo.ListInterviews(ctx, domain.ArchiveQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 archived interview, got %d", total)
	}
}

// TestGetInterview tests lookup by session and the not-found case
func TestGetInterview(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.SaveInterview(ctx, archived("s-1", "urdu_script", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetInterview(ctx, "s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == nil {
		t.Error("expected generated id")
	}
	if got.Language != "urdu_script" || got.TurnCount != 4 {
		t.Errorf("unexpected row: %+v", got)
	}

	if _, err := repo.GetInterview(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

// TestListInterviewsPagination tests ordering, paging and the language filter
func TestListInterviewsPagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		language := "english"
		if i%2 == 0 {
			language = "roman_urdu"
		}
		if _, err := repo.SaveInterview(ctx, archived(fmt.Sprintf("s-%d", i), language, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	limit, page := 2, 1
	rows, total, err := repo.ListInterviews(ctx, domain.ArchiveQuery{Limit: &limit, Page: &page})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(rows) != 2 {
		t.Fatalf("expected 2 of 5 rows, got %d of %d", len(rows), total)
	}
	if rows[0].SessionID != "s-4" || rows[1].SessionID != "s-3" {
		t.Errorf("expected newest first, got %s, %s", rows[0].SessionID, rows[1].SessionID)
	}

	page = 3
	rows, _, err = repo.ListInterviews(ctx, domain.ArchiveQuery{Limit: &limit, Page: &page})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].SessionID != "s-0" {
		t.Errorf("expected last page with s-0, got %+v", rows)
	}

	language := "roman_urdu"
	_, total, err = repo.ListInterviews(ctx, domain.ArchiveQuery{Language: &language})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 roman_urdu interviews, got %d", total)
	}
}
