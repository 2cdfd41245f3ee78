package application

import (
	"context"
	"strings"
	"sync"

	"sehatnama/internal/domain"
)

// Mock implementations for testing

// MockAgent implements output.Agent for testing
type MockAgent struct {
	RespondFunc func(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error)

	mu          sync.Mutex
	Requests    []domain.AgentRequest
	PlainCalls  int
	StreamCalls int
}

func (m *MockAgent) Respond(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error) {
	m.mu.Lock()
	m.PlainCalls++
	m.mu.Unlock()
	return m.respond(ctx, request)
}

func (m *MockAgent) RespondStream(ctx context.Context, request domain.AgentRequest, onToken func(string)) (*domain.AgentReply, error) {
	m.mu.Lock()
	m.StreamCalls++
	m.mu.Unlock()
	reply, err := m.respond(ctx, request)
	if err != nil {
		return nil, err
	}
	if onToken != nil && reply != nil {
		for _, word := range strings.SplitAfter(reply.Text, " ") {
			onToken(word)
		}
	}
	return reply, nil
}

func (m *MockAgent) respond(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, request)
	m.mu.Unlock()
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, request)
	}
	return domain.TextReply("AI response"), nil
}

// CallCounts returns how many plain and streamed invocations were made
func (m *MockAgent) CallCounts() (plain, stream int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PlainCalls, m.StreamCalls
}

// Sections returns the section of every recorded request
func (m *MockAgent) Sections() []domain.SectionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SectionID, len(m.Requests))
	for i, r := range m.Requests {
		out[i] = r.Section
	}
	return out
}

// scriptedAgent returns the replies in order and a plain text reply once they run out
func scriptedAgent(replies ...*domain.AgentReply) *MockAgent {
	var (
		mu   sync.Mutex
		next int
	)
	return &MockAgent{
		RespondFunc: func(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error) {
			mu.Lock()
			defer mu.Unlock()
			if next >= len(replies) {
				return domain.TextReply("..."), nil
			}
			reply := replies[next]
			next++
			return reply, nil
		},
	}
}

// echoAgent records every patient utterance under a field named after it, then asks again
func echoAgent() *MockAgent {
	return &MockAgent{
		RespondFunc: func(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error) {
			n := len(request.Turns)
			if n > 0 && request.Turns[n-1].Role == domain.RolePatient {
				answer := request.Turns[n-1].Content
				return domain.ExtractReply("ok", []domain.ExtractionRequest{
					{Field: answer, Value: answer},
				}, false), nil
			}
			return domain.TextReply("next?"), nil
		},
	}
}

// MockTranslator implements output.Translator for testing
type MockTranslator struct {
	TranslateFunc func(ctx context.Context, text string) (string, error)

	mu    sync.Mutex
	Calls []string
}

func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text)
	}
	return "EN(" + text + ")", nil
}

// MockArchive implements output.InterviewArchive for testing
type MockArchive struct {
	SaveInterviewFunc  func(ctx context.Context, interview domain.ArchivedInterview) (bool, error)
	GetInterviewFunc   func(ctx context.Context, sessionID string) (*domain.ArchivedInterview, error)
	ListInterviewsFunc func(ctx context.Context, query domain.ArchiveQuery) ([]domain.ArchivedInterview, int64, error)

	// Captured values for assertions
	mu        sync.Mutex
	Saved     []domain.ArchivedInterview
	LastQuery *domain.ArchiveQuery
}

func (m *MockArchive) SaveInterview(ctx context.Context, interview domain.ArchivedInterview) (bool, error) {
	m.mu.Lock()
	m.Saved = append(m.Saved, interview)
	m.mu.Unlock()
	if m.SaveInterviewFunc != nil {
		return m.SaveInterviewFunc(ctx, interview)
	}
	return true, nil
}

func (m *MockArchive) GetInterview(ctx context.Context, sessionID string) (*domain.ArchivedInterview, error) {
	if m.GetInterviewFunc != nil {
		return m.GetInterviewFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockArchive) ListInterviews(ctx context.Context, query domain.ArchiveQuery) ([]domain.ArchivedInterview, int64, error) {
	m.LastQuery = &query
	if m.ListInterviewsFunc != nil {
		return m.ListInterviewsFunc(ctx, query)
	}
	return nil, 0, nil
}

// MockLineClient implements output.LineClient for testing
type MockLineClient struct {
	ReplyMessageFunc func(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error)
	PushMessageFunc  func(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)

	// Captured values for assertions
	LastReplyRequest *domain.LineReplyMessageRequest
	LastPushRequest  *domain.LinePushMessageRequest

	ReplyRequests []domain.LineReplyMessageRequest
}

func (m *MockLineClient) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastReplyRequest = &request
	m.ReplyRequests = append(m.ReplyRequests, request)
	if m.ReplyMessageFunc != nil {
		return m.ReplyMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

func (m *MockLineClient) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastPushRequest = &request
	if m.PushMessageFunc != nil {
		return m.PushMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

// MockTranscriber implements output.Transcriber for testing
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, request domain.TranscriptionRequest) (*domain.TranscriptionResult, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, request domain.TranscriptionRequest) (*domain.TranscriptionResult, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, request)
	}
	return &domain.TranscriptionResult{Text: "transcribed"}, nil
}

// MockSynthesizer implements output.SpeechSynthesizer for testing
type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, request domain.SpeechRequest) (*domain.SpeechResult, error)
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, request domain.SpeechRequest) (*domain.SpeechResult, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, request)
	}
	return &domain.SpeechResult{Audio: []byte("audio"), ContentType: "audio/mpeg"}, nil
}

// testCatalog builds a catalog with empty guidance
func testCatalog(ids ...domain.SectionID) *domain.Catalog {
	specs := make([]domain.SectionSpec, len(ids))
	for i, id := range ids {
		specs[i] = domain.SectionSpec{ID: id}
	}
	catalog, err := domain.NewCatalog("", specs)
	if err != nil {
		panic(err)
	}
	return catalog
}
