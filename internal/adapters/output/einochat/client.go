package einochat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.ChatCompletionClient = (*ClientAdapter)(nil)

const streamingChannelBufferSize = 100

// Config struct
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout int // seconds
}

// ClientAdapter struct - Output adapter running chat completions through an eino tool-calling model
type ClientAdapter struct {
	chatModel model.ToolCallingChatModel
	model     string
}

// NewClientAdapter func - builds the eino OpenAI chat model from config
func NewClientAdapter(ctx context.Context, config Config) (*ClientAdapter, error) {
	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 60 * time.Second
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init agent model: %w", err)
	}
	logrus.Infof("Agent chat model initialized: %s", config.Model)
	return NewClientAdapterWithModel(cm, config.Model), nil
}

// NewClientAdapterWithModel func - wraps an existing chat model
func NewClientAdapterWithModel(chatModel model.ToolCallingChatModel, modelName string) *ClientAdapter {
	return &ClientAdapter{chatModel: chatModel, model: modelName}
}

// ChatCompletion func - one non-streaming completion
func (a *ClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	cm, err := a.bind(request.Tools)
	if err != nil {
		return nil, err
	}

	resp, err := cm.Generate(ctx, toMessages(request.Messages), options(request)...)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", domain.ErrCollaboratorUnavailable)
	}

	result := &domain.ChatCompletionResponse{
		Content:   resp.Content,
		ToolCalls: fromToolCalls(resp.ToolCalls),
		Model:     a.model,
	}
	if meta := resp.ResponseMeta; meta != nil {
		result.FinishReason = meta.FinishReason
		if meta.Usage != nil {
			result.PromptTokens = meta.Usage.PromptTokens
			result.CompletionTokens = meta.Usage.CompletionTokens
			result.TotalTokens = meta.Usage.TotalTokens
		}
	}
	return result, nil
}

// ChatCompletionStream func - content deltas, then a final chunk with the merged tool calls
func (a *ClientAdapter) ChatCompletionStream(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error) {
	cm, err := a.bind(request.Tools)
	if err != nil {
		return nil, err
	}

	reader, err := cm.Stream(ctx, toMessages(request.Messages), options(request)...)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	chunks := make(chan domain.ChatCompletionChunk, streamingChannelBufferSize)
	go func() {
		defer close(chunks)
		defer reader.Close()

		var parts []*schema.Message
		for {
			msg, err := reader.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				chunks <- domain.ChatCompletionChunk{Error: mapError(ctx, err)}
				return
			}
			if msg == nil {
				continue
			}
			parts = append(parts, msg)
			if msg.Content != "" {
				chunks <- domain.ChatCompletionChunk{Content: msg.Content}
			}
		}

		final := domain.ChatCompletionChunk{Done: true}
		if len(parts) > 0 {
			merged, err := schema.ConcatMessages(parts)
			if err != nil {
				chunks <- domain.ChatCompletionChunk{Error: fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)}
				return
			}
			final.ToolCalls = fromToolCalls(merged.ToolCalls)
		}
		chunks <- final
	}()
	return chunks, nil
}

// ListModels func - the eino model serves exactly the configured model
func (a *ClientAdapter) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	if a.model == "" {
		return nil, nil
	}
	return []domain.ModelInfo{{ID: a.model, Object: "model"}}, nil
}

func (a *ClientAdapter) bind(tools []domain.ToolDefinition) (model.ToolCallingChatModel, error) {
	if len(tools) == 0 {
		return a.chatModel, nil
	}
	cm, err := a.chatModel.WithTools(toToolInfos(tools))
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", domain.ErrInvalidRequest, err)
	}
	return cm, nil
}

func options(request domain.ChatCompletionRequest) []model.Option {
	var opts []model.Option
	if request.Model != nil && *request.Model != "" {
		opts = append(opts, model.WithModel(*request.Model))
	}
	if request.Temperature != nil {
		opts = append(opts, model.WithTemperature(float32(*request.Temperature)))
	}
	if request.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*request.MaxTokens))
	}
	return opts
}

func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrCollaboratorTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
}

func toMessages(messages []domain.ChatMessage) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		msg := &schema.Message{Content: m.Content, ToolCallID: m.ToolCallID}
		switch m.Role {
		case domain.ChatMessageRoleSystem:
			msg.Role = schema.System
		case domain.ChatMessageRoleAssistant:
			msg.Role = schema.Assistant
		case domain.ChatMessageRoleTool:
			msg.Role = schema.Tool
		default:
			msg.Role = schema.User
		}
		for _, call := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
				ID:       call.ID,
				Type:     "function",
				Function: schema.FunctionCall{Name: call.Name, Arguments: call.Arguments},
			})
		}
		out = append(out, msg)
	}
	return out
}

func fromToolCalls(calls []schema.ToolCall) []domain.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]domain.ToolCall, 0, len(calls))
	for _, call := range calls {
		out = append(out, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}

// toToolInfos converts JSON schema tool parameters into eino parameter descriptions.
// Only flat objects of scalar properties are supported.
func toToolInfos(tools []domain.ToolDefinition) []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, tool := range tools {
		info := &schema.ToolInfo{Name: tool.Name, Desc: tool.Description}
		if params := toParams(tool.Parameters); len(params) > 0 {
			info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
		}
		infos = append(infos, info)
	}
	return infos
}

func toParams(parameters map[string]interface{}) map[string]*schema.ParameterInfo {
	properties, _ := parameters["properties"].(map[string]interface{})
	if len(properties) == 0 {
		return nil
	}

	required := map[string]bool{}
	switch names := parameters["required"].(type) {
	case []string:
		for _, n := range names {
			required[n] = true
		}
	case []interface{}:
		for _, n := range names {
			if s, ok := n.(string); ok {
				required[s] = true
			}
		}
	}

	params := make(map[string]*schema.ParameterInfo, len(properties))
	for name, raw := range properties {
		prop, _ := raw.(map[string]interface{})
		info := &schema.ParameterInfo{Type: schema.String, Required: required[name]}
		if t, ok := prop["type"].(string); ok && t != "" {
			info.Type = schema.DataType(t)
		}
		if desc, ok := prop["description"].(string); ok {
			info.Desc = desc
		}
		params[name] = info
	}
	return params
}
