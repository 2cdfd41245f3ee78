package domain

// ChatMessageRole is the role of a message sent to a chat completion API
type ChatMessageRole string

const (
	// ChatMessageRoleSystem - rendered section instruction
	ChatMessageRoleSystem ChatMessageRole = "system"
	// ChatMessageRoleUser - patient turn
	ChatMessageRoleUser ChatMessageRole = "user"
	// ChatMessageRoleAssistant - agent turn
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
	// ChatMessageRoleTool - tool result
	ChatMessageRoleTool ChatMessageRole = "tool"
)

// ChatMessage is one message of a chat completion request
type ChatMessage struct {
	Role       ChatMessageRole
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolDefinition declares a function the model may call
type ToolDefinition struct {
	Name        string
	Description string
	// Parameters is a JSON schema object
	Parameters map[string]interface{}
}

// ToolCall is a function call requested by the model. Arguments is raw JSON.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ChatCompletionRequest is a provider-neutral chat completion request
type ChatCompletionRequest struct {
	Model       *string
	Messages    []ChatMessage
	Temperature *float64
	MaxTokens   *int
	Tools       []ToolDefinition
}

// ChatCompletionResponse is a provider-neutral chat completion result
type ChatCompletionResponse struct {
	Content          string
	ToolCalls        []ToolCall
	FinishReason     string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatCompletionChunk is one streamed delta.
// ToolCalls is only set on the final chunk, after deltas were accumulated.
type ChatCompletionChunk struct {
	Content   string
	ToolCalls []ToolCall
	Done      bool
	Error     error
}

// ModelInfo describes a model served by the chat completion API
type ModelInfo struct {
	ID      string
	Object  string
	OwnedBy string
}
