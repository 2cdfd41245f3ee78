package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/input"
	"sehatnama/internal/ports/output"
)

var _ input.InterviewService = (*InterviewService)(nil)

// InterviewService struct - Application service implementing the interview lifecycle
type InterviewService struct {
	store      output.SessionStore
	controller *InterviewController
	renderer   *HistoryRenderer
	archive    output.InterviewArchive
	timeout    time.Duration
}

// NewInterviewService func - archive may be nil when finished interviews are not kept
func NewInterviewService(
	store output.SessionStore,
	controller *InterviewController,
	renderer *HistoryRenderer,
	archive output.InterviewArchive,
	sessionTimeout time.Duration,
) *InterviewService {
	return &InterviewService{
		store:      store,
		controller: controller,
		renderer:   renderer,
		archive:    archive,
		timeout:    sessionTimeout,
	}
}

// Start func - Use case: create a session and produce the first agent reply.
// A caller-chosen identifier that is already live is refused with ErrSessionExists.
func (s *InterviewService) Start(ctx context.Context, options domain.StartOptions) (*domain.StartResult, error) {
	id := options.SessionID
	if id == "" {
		id = uuid.New().String()
	}

	session := domain.NewInterviewSession(id, s.controller.Catalog().First(), s.timeout)
	session.Lock()
	defer session.Unlock()

	if _, created, err := s.store.CreateSession(session); err != nil {
		logrus.Errorln(err)
		return nil, err
	} else if !created {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionExists, id)
	}

	cycle := s.controller.Run(ctx, session, nil)
	if err := s.store.UpdateSession(session); err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	if session.Finished {
		s.archiveSession(ctx, session)
	}

	logrus.Infof("Interview %s started in section %s", session.ID, session.CurrentSection)

	return &domain.StartResult{
		SessionID: session.ID,
		Message:   cycle.Message,
		Section:   session.CurrentSection,
		Degraded:  cycle.Degraded,
	}, nil
}

// Send func - Use case: one controller step for an inbound utterance
func (s *InterviewService) Send(ctx context.Context, sessionID, utterance string) (*domain.SendResult, error) {
	return s.step(ctx, sessionID, utterance, nil)
}

// SendStream func - Use case: the same step as Send with incremental delivery
func (s *InterviewService) SendStream(ctx context.Context, sessionID, utterance string, onToken func(string)) (*domain.SendResult, error) {
	return s.step(ctx, sessionID, utterance, onToken)
}

func (s *InterviewService) step(ctx context.Context, sessionID, utterance string, onToken func(string)) (*domain.SendResult, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.Discarded {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	before, err := sonic.Marshal(session.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot record: %w", err)
	}

	if err := s.controller.Accept(session, utterance); err != nil {
		return nil, err
	}

	cycle := s.controller.Run(ctx, session, onToken)

	if err := s.store.UpdateSession(session); err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	if session.Finished {
		s.archiveSession(ctx, session)
	}

	return &domain.SendResult{
		Message:     cycle.Message,
		Record:      session.Record.Clone(),
		RecordPatch: recordPatch(before, session.Record),
		IsComplete:  session.Finished,
		Section:     session.CurrentSection,
		State:       session.State,
		Degraded:    cycle.Degraded,
	}, nil
}

// History func - Use case: render the dialogue log
func (s *InterviewService) History(ctx context.Context, sessionID string, view domain.HistoryView) ([]domain.HistoryEntry, error) {
	if _, ok := view.Canonical(); !ok {
		return nil, fmt.Errorf("%w: unknown history view %q", domain.ErrInvalidRequest, view)
	}
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	turns := session.GetHistory()
	session.Unlock()

	return s.renderer.Render(ctx, turns, view)
}

// Snapshot func - Use case: current progress of a session
func (s *InterviewService) Snapshot(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	snapshot := session.Snapshot()
	return &snapshot, nil
}

// Abandon func - Use case: explicit abandonment
func (s *InterviewService) Abandon(ctx context.Context, sessionID string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	// waits for an in-flight step so its store update cannot bring the session back
	session.Lock()
	defer session.Unlock()

	session.Discarded = true
	if err := s.store.DeleteSession(sessionID); err != nil {
		logrus.Errorln(err)
		return err
	}
	logrus.Infof("Interview %s abandoned", sessionID)
	return nil
}

func (s *InterviewService) getSession(sessionID string) (*domain.InterviewSession, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// archiveSession keeps a finished interview. Failures are logged; the interview
// itself is already complete.
func (s *InterviewService) archiveSession(ctx context.Context, session *domain.InterviewSession) {
	if s.archive == nil {
		return
	}

	record, err := sonic.MarshalString(session.Record)
	if err != nil {
		logrus.Errorf("Failed to encode record of %s: %v", session.ID, err)
		return
	}
	transcript, err := sonic.MarshalString(session.Turns)
	if err != nil {
		logrus.Errorf("Failed to encode transcript of %s: %v", session.ID, err)
		return
	}

	started := session.CreatedAt
	completed := time.Now()
	created, err := s.archive.SaveInterview(ctx, domain.ArchivedInterview{
		SessionID:   session.ID,
		Language:    string(session.Language),
		Record:      record,
		Transcript:  transcript,
		TurnCount:   len(session.Turns),
		StartedAt:   &started,
		CompletedAt: &completed,
	})
	if err != nil {
		logrus.Errorf("Failed to archive interview %s: %v", session.ID, err)
		return
	}
	if created {
		logrus.Infof("Interview %s archived with %d fields", session.ID, session.Record.FieldCount())
	}
}

// recordPatch builds the RFC 7396 merge patch from the pre-step record to the current one
func recordPatch(before []byte, record domain.Record) []byte {
	after, err := sonic.Marshal(record)
	if err != nil {
		logrus.Warnf("Failed to encode record: %v", err)
		return nil
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		logrus.Warnf("Failed to build record patch: %v", err)
		return nil
	}
	return patch
}
