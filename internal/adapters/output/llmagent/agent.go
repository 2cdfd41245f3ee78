package llmagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.Agent = (*Agent)(nil)

// Tool names declared to the model
const (
	ToolRecordInfo          = "record_info"
	ToolMarkSectionComplete = "mark_section_complete"
)

// Options struct
type Options struct {
	Model       string
	Temperature float64
}

// Agent struct - Output adapter turning a tool-calling chat model into domain.AgentReply
type Agent struct {
	client      output.ChatCompletionClient
	model       *string
	temperature *float64
}

// NewAgent func - Creates new tool-calling agent
func NewAgent(client output.ChatCompletionClient, opts Options) *Agent {
	a := &Agent{client: client}
	if opts.Model != "" {
		model := opts.Model
		a.model = &model
	}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		a.temperature = &temperature
	}
	return a
}

// Respond func - one non-streaming agent invocation
func (a *Agent) Respond(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error) {
	resp, err := a.client.ChatCompletion(ctx, a.buildChatRequest(request))
	if err != nil {
		return nil, err
	}
	return ParseReply(request.Section, resp.Content, resp.ToolCalls), nil
}

// RespondStream func - streaming agent invocation, text deltas go to onToken
func (a *Agent) RespondStream(ctx context.Context, request domain.AgentRequest, onToken func(string)) (*domain.AgentReply, error) {
	chunks, err := a.client.ChatCompletionStream(ctx, a.buildChatRequest(request))
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	var toolCalls []domain.ToolCall
	for chunk := range chunks {
		if chunk.Error != nil {
			return nil, chunk.Error
		}
		if chunk.Content != "" {
			text.WriteString(chunk.Content)
			if onToken != nil {
				onToken(chunk.Content)
			}
		}
		if chunk.Done {
			toolCalls = chunk.ToolCalls
		}
	}
	return ParseReply(request.Section, text.String(), toolCalls), nil
}

// buildChatRequest - the rendered instruction followed by the dialogue log
func (a *Agent) buildChatRequest(request domain.AgentRequest) domain.ChatCompletionRequest {
	messages := make([]domain.ChatMessage, 0, len(request.Turns)+1)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatMessageRoleSystem,
		Content: request.Instruction,
	})
	for _, turn := range request.Turns {
		role := domain.ChatMessageRoleUser
		if turn.Role == domain.RoleAgent {
			role = domain.ChatMessageRoleAssistant
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: turn.Content})
	}

	return domain.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: a.temperature,
		Tools:       Tools(),
	}
}

// Tools returns the tool declarations sent with every request
func Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolRecordInfo,
			Description: "Record one piece of information the patient gave.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"section": map[string]interface{}{"type": "string", "description": "Section the fact belongs to"},
					"field":   map[string]interface{}{"type": "string", "description": "Field name, e.g. name, age, symptom"},
					"value":   map[string]interface{}{"type": "string", "description": "Value as stated by the patient"},
				},
				"required": []string{"section", "field", "value"},
			},
		},
		{
			Name:        ToolMarkSectionComplete,
			Description: "Mark the current section as complete and move to the next one.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"section":   map[string]interface{}{"type": "string"},
					"reasoning": map[string]interface{}{"type": "string"},
				},
				"required": []string{"section", "reasoning"},
			},
		},
	}
}

type recordInfoArgs struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

type markSectionCompleteArgs struct {
	Section   string `json:"section"`
	Reasoning string `json:"reasoning"`
}

// ParseReply normalizes model output into the tagged reply.
// Undecodable record_info calls are dropped; a completion naming another section is ignored.
func ParseReply(current domain.SectionID, text string, toolCalls []domain.ToolCall) *domain.AgentReply {
	var (
		requests []domain.ExtractionRequest
		complete bool
	)

	for _, call := range toolCalls {
		switch call.Name {
		case ToolRecordInfo:
			var args recordInfoArgs
			if err := sonic.UnmarshalString(call.Arguments, &args); err != nil {
				logrus.Warnf("Dropping record_info call %s: %v", call.ID, fmt.Errorf("%w: %v", domain.ErrMalformedExtraction, err))
				continue
			}
			requests = append(requests, domain.ExtractionRequest{
				Section: domain.SectionID(strings.TrimSpace(args.Section)),
				Field:   strings.TrimSpace(args.Field),
				Value:   strings.TrimSpace(args.Value),
			})

		case ToolMarkSectionComplete:
			var args markSectionCompleteArgs
			if call.Arguments != "" {
				if err := sonic.UnmarshalString(call.Arguments, &args); err != nil {
					logrus.Warnf("Ignoring arguments of mark_section_complete call %s: %v", call.ID, err)
				}
			}
			named := domain.SectionID(strings.TrimSpace(args.Section))
			if named != "" && named != current {
				logrus.Warnf("Ignoring mark_section_complete for %s while in %s", named, current)
				continue
			}
			complete = true
			logrus.Debugf("Section %s marked complete: %s", current, args.Reasoning)

		default:
			logrus.Warnf("Ignoring unknown tool call %q", call.Name)
		}
	}

	switch {
	case len(requests) > 0:
		return domain.ExtractReply(text, requests, complete)
	case complete:
		return domain.CompleteReply(text)
	default:
		return domain.TextReply(text)
	}
}
