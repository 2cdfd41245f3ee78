package domain

import (
	"sync"
	"testing"
	"time"
)

const defaultTimeout = 30 * time.Minute

// TestNewInterviewSession tests session creation and initialization
func TestNewInterviewSession(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, defaultTimeout)

	if session.ID != "s-1" {
		t.Errorf("expected ID s-1, got %s", session.ID)
	}
	if session.CurrentSection != SectionDemographics {
		t.Errorf("expected first section demographics, got %s", session.CurrentSection)
	}
	if session.State != StateAwaitingAgent {
		t.Errorf("expected initial state %s, got %s", StateAwaitingAgent, session.State)
	}
	if session.Finished || session.SectionComplete {
		t.Error("expected completion flags to be unset")
	}
	if len(session.Turns) != 0 {
		t.Errorf("expected empty dialogue log, got %d turns", len(session.Turns))
	}
	if session.Record == nil || len(session.Record) != 0 {
		t.Errorf("expected empty non-nil record, got %v", session.Record)
	}
	if session.LastAccessTime().IsZero() {
		t.Error("expected last access time to be set")
	}
}

// TestInterviewSessionIsExpired tests idle expiry
func TestInterviewSessionIsExpired(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, defaultTimeout)

	if session.IsExpired() {
		t.Error("expected new session to not be expired")
	}

	session.TouchAt(time.Now().Add(-31 * time.Minute))
	if !session.IsExpired() {
		t.Error("expected session idle for 31 minutes to be expired")
	}

	session.TouchAt(time.Now().Add(-29 * time.Minute))
	if session.IsExpired() {
		t.Error("expected session idle for 29 minutes to not be expired")
	}

	session.Touch()
	if session.IsExpired() {
		t.Error("expected touched session to not be expired")
	}
}

// TestInterviewSessionZeroTimeoutNeverExpires tests that a zero timeout disables expiry
func TestInterviewSessionZeroTimeoutNeverExpires(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, 0)
	session.TouchAt(time.Now().Add(-24 * time.Hour))

	if session.IsExpired() {
		t.Error("expected session without timeout to never expire")
	}
}

// TestInterviewSessionAppendTurn tests chronological append
func TestInterviewSessionAppendTurn(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, defaultTimeout)

	session.AppendTurn(RoleAgent, "السلام علیکم")
	session.AppendTurn(RolePatient, "Ali")

	history := session.GetHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != RoleAgent || history[0].Content != "السلام علیکم" {
		t.Errorf("unexpected first turn %+v", history[0])
	}
	if history[1].Role != RolePatient || history[1].Content != "Ali" {
		t.Errorf("unexpected second turn %+v", history[1])
	}
	if history[1].Timestamp.Before(history[0].Timestamp) {
		t.Error("expected timestamps in chronological order")
	}
}

// TestInterviewSessionGetHistoryReturnsCopy tests that callers cannot mutate the log
func TestInterviewSessionGetHistoryReturnsCopy(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, defaultTimeout)
	session.AppendTurn(RolePatient, "Ali")

	history := session.GetHistory()
	history[0].Content = "modified"

	if session.Turns[0].Content != "Ali" {
		t.Errorf("expected stored turn to be unchanged, got %q", session.Turns[0].Content)
	}
}

// TestInterviewSessionSnapshotIsDetached tests that snapshots do not share the record
func TestInterviewSessionSnapshotIsDetached(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, defaultTimeout)
	session.Record.Set(SectionDemographics, "name", "Ali")
	session.Language = LanguageEnglish

	snapshot := session.Snapshot()
	snapshot.Record.Set(SectionDemographics, "name", "Changed")

	if v, _ := session.Record.Get(SectionDemographics, "name"); v != "Ali" {
		t.Errorf("expected record to be unchanged, got %q", v)
	}
	if snapshot.Language != LanguageEnglish {
		t.Errorf("expected language english, got %s", snapshot.Language)
	}
}

// TestInterviewSessionLockSerializes tests that the session lock serializes writers
func TestInterviewSessionLockSerializes(t *testing.T) {
	session := NewInterviewSession("s-1", SectionDemographics, defaultTimeout)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Lock()
			defer session.Unlock()
			session.AppendTurn(RolePatient, "x")
		}()
	}
	wg.Wait()

	if len(session.Turns) != 50 {
		t.Errorf("expected 50 turns, got %d", len(session.Turns))
	}
}
