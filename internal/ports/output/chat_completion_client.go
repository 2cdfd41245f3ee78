package output

import (
	"context"

	"sehatnama/internal/domain"
)

// ChatCompletionClient interface - Output port
// Defines what the agent adapter needs from an OpenAI-compatible chat completion API.
type ChatCompletionClient interface {
	// ChatCompletion sends a non-streaming request. Tool calls requested by the model
	// are returned on the response.
	ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// ChatCompletionStream returns a channel of content deltas. The final chunk has Done set
	// and carries the accumulated tool calls, or Error if the stream failed.
	ChatCompletionStream(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error)

	// ListModels queries the /v1/models endpoint
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
}
