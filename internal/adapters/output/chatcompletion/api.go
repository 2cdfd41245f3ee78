package chatcompletion

// API request/response structures for OpenAI-compatible chat completions

type chatMessageAPI struct {
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	ToolCalls  []toolCallAPI `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

type functionCallAPI struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolCallAPI struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function functionCallAPI `json:"function"`
}

type functionDefinitionAPI struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type toolAPI struct {
	Type     string                `json:"type"`
	Function functionDefinitionAPI `json:"function"`
}

type chatCompletionAPIRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessageAPI `json:"messages"`
	Stream      bool             `json:"stream"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   *int             `json:"max_tokens,omitempty"`
	Tools       []toolAPI        `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
}

type usageAPI struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type choiceAPI struct {
	Index        int            `json:"index"`
	Message      chatMessageAPI `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type chatCompletionAPIResponse struct {
	ID      string      `json:"id"`
	Object  string      `json:"object"`
	Created int64       `json:"created"`
	Model   string      `json:"model"`
	Choices []choiceAPI `json:"choices"`
	Usage   usageAPI    `json:"usage"`
}

type toolCallDeltaAPI struct {
	Index    int             `json:"index"`
	ID       string          `json:"id,omitempty"`
	Type     string          `json:"type,omitempty"`
	Function functionCallAPI `json:"function"`
}

type streamDeltaAPI struct {
	Role      string             `json:"role,omitempty"`
	Content   string             `json:"content,omitempty"`
	ToolCalls []toolCallDeltaAPI `json:"tool_calls,omitempty"`
}

type streamChoiceAPI struct {
	Index        int            `json:"index"`
	Delta        streamDeltaAPI `json:"delta"`
	FinishReason *string        `json:"finish_reason,omitempty"`
}

// chatCompletionStreamResponse is a single SSE chunk
type chatCompletionStreamResponse struct {
	ID      string            `json:"id"`
	Object  string            `json:"object"`
	Created int64             `json:"created"`
	Model   string            `json:"model"`
	Choices []streamChoiceAPI `json:"choices"`
}

type modelAPI struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

type modelsResponse struct {
	Object string     `json:"object"`
	Data   []modelAPI `json:"data"`
}
