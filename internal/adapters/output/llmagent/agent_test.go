package llmagent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sehatnama/internal/domain"
)

// MockChatCompletionClient is a mock implementation of output.ChatCompletionClient
type MockChatCompletionClient struct {
	ChatCompletionFunc       func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)
	ChatCompletionStreamFunc func(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error)

	LastRequest *domain.ChatCompletionRequest
}

func (m *MockChatCompletionClient) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	m.LastRequest = &request
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, request)
	}
	return &domain.ChatCompletionResponse{Content: "AI response"}, nil
}

func (m *MockChatCompletionClient) ChatCompletionStream(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error) {
	m.LastRequest = &request
	if m.ChatCompletionStreamFunc != nil {
		return m.ChatCompletionStreamFunc(ctx, request)
	}
	ch := make(chan domain.ChatCompletionChunk, 2)
	ch <- domain.ChatCompletionChunk{Content: "AI response"}
	ch <- domain.ChatCompletionChunk{Done: true}
	close(ch)
	return ch, nil
}

func (m *MockChatCompletionClient) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	return nil, nil
}

func recordCall(args string) domain.ToolCall {
	return domain.ToolCall{ID: "call", Name: ToolRecordInfo, Arguments: args}
}

// TestBuildChatRequest tests message ordering and role mapping
func TestBuildChatRequest(t *testing.T) {
	client := &MockChatCompletionClient{}
	agent := NewAgent(client, Options{Model: "gpt-test", Temperature: 0.3})

	_, err := agent.Respond(context.Background(), domain.AgentRequest{
		Section:     domain.SectionDemographics,
		Instruction: "instruction",
		Turns: []domain.DialogueTurn{
			{Role: domain.RoleAgent, Content: "آپ کا نام؟"},
			{Role: domain.RolePatient, Content: "Ali"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := client.LastRequest
	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != domain.ChatMessageRoleSystem || req.Messages[0].Content != "instruction" {
		t.Errorf("expected system instruction first, got %+v", req.Messages[0])
	}
	if req.Messages[1].Role != domain.ChatMessageRoleAssistant {
		t.Errorf("expected agent turn as assistant, got %s", req.Messages[1].Role)
	}
	if req.Messages[2].Role != domain.ChatMessageRoleUser || req.Messages[2].Content != "Ali" {
		t.Errorf("expected patient turn as user, got %+v", req.Messages[2])
	}
	if req.Model == nil || *req.Model != "gpt-test" {
		t.Error("expected model override")
	}
	if req.Temperature == nil || *req.Temperature != 0.3 {
		t.Error("expected temperature")
	}
	if len(req.Tools) != 2 {
		t.Errorf("expected 2 tools, got %d", len(req.Tools))
	}
}

// TestParseReplyVariants tests the single parsing boundary
func TestParseReplyVariants(t *testing.T) {
	complete := domain.ToolCall{Name: ToolMarkSectionComplete, Arguments: `{"section":"demographics","reasoning":"done"}`}

	tests := []struct {
		name          string
		calls         []domain.ToolCall
		wantKind      domain.ReplyKind
		wantRequests  int
		wantCompleted bool
	}{
		{"text only", nil, domain.ReplyKindText, 0, false},
		{"record", []domain.ToolCall{recordCall(`{"section":"demographics","field":"name","value":"Ali"}`)}, domain.ReplyKindExtract, 1, false},
		{"complete", []domain.ToolCall{complete}, domain.ReplyKindComplete, 0, false},
		{"record then complete", []domain.ToolCall{recordCall(`{"field":"age","value":"40"}`), complete}, domain.ReplyKindExtract, 1, true},
		{"undecodable record", []domain.ToolCall{recordCall(`{"field":`)}, domain.ReplyKindText, 0, false},
		{"complete for another section", []domain.ToolCall{{Name: ToolMarkSectionComplete, Arguments: `{"section":"social"}`}}, domain.ReplyKindText, 0, false},
		{"complete without arguments", []domain.ToolCall{{Name: ToolMarkSectionComplete}}, domain.ReplyKindComplete, 0, false},
		{"unknown tool", []domain.ToolCall{{Name: "search"}}, domain.ReplyKindText, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ParseReply(domain.SectionDemographics, "text", tt.calls)
			if reply.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, reply.Kind)
			}
			if len(reply.Extractions) != tt.wantRequests {
				t.Errorf("expected %d requests, got %d", tt.wantRequests, len(reply.Extractions))
			}
			if reply.CompleteAfter != tt.wantCompleted {
				t.Errorf("expected completeAfter=%v, got %v", tt.wantCompleted, reply.CompleteAfter)
			}
			if reply.Text != "text" {
				t.Errorf("expected text to be kept, got %q", reply.Text)
			}
		})
	}
}

// TestParseReplyTrimsArguments tests whitespace handling of record_info arguments
func TestParseReplyTrimsArguments(t *testing.T) {
	reply := ParseReply(domain.SectionComplaint, "", []domain.ToolCall{
		recordCall(`{"section":" complaint ","field":" symptom","value":"fever "}`),
	})

	want := domain.ExtractionRequest{Section: domain.SectionComplaint, Field: "symptom", Value: "fever"}
	if len(reply.Extractions) != 1 || reply.Extractions[0] != want {
		t.Errorf("expected %+v, got %+v", want, reply.Extractions)
	}
}

// TestRespondStreamForwardsTokens tests that streaming yields the same reply as the token sum
func TestRespondStreamForwardsTokens(t *testing.T) {
	client := &MockChatCompletionClient{
		ChatCompletionStreamFunc: func(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error) {
			ch := make(chan domain.ChatCompletionChunk, 4)
			ch <- domain.ChatCompletionChunk{Content: "شکریہ "}
			ch <- domain.ChatCompletionChunk{Content: "Ali"}
			ch <- domain.ChatCompletionChunk{Done: true, ToolCalls: []domain.ToolCall{
				recordCall(`{"section":"demographics","field":"name","value":"Ali"}`),
			}}
			close(ch)
			return ch, nil
		},
	}
	agent := NewAgent(client, Options{})

	var tokens []string
	reply, err := agent.RespondStream(context.Background(), domain.AgentRequest{Section: domain.SectionDemographics}, func(s string) {
		tokens = append(tokens, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(tokens, "") != reply.Text || reply.Text != "شکریہ Ali" {
		t.Errorf("expected tokens to add up to the reply text, got %q vs %q", strings.Join(tokens, ""), reply.Text)
	}
	if reply.Kind != domain.ReplyKindExtract {
		t.Errorf("expected extract reply, got %s", reply.Kind)
	}
}

// TestRespondStreamError tests that a failed stream surfaces as an error
func TestRespondStreamError(t *testing.T) {
	client := &MockChatCompletionClient{
		ChatCompletionStreamFunc: func(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error) {
			ch := make(chan domain.ChatCompletionChunk, 1)
			ch <- domain.ChatCompletionChunk{Done: true, Error: domain.ErrCollaboratorUnavailable}
			close(ch)
			return ch, nil
		},
	}
	agent := NewAgent(client, Options{})

	_, err := agent.RespondStream(context.Background(), domain.AgentRequest{}, nil)
	if !errors.Is(err, domain.ErrCollaboratorUnavailable) {
		t.Errorf("expected ErrCollaboratorUnavailable, got %v", err)
	}
}
