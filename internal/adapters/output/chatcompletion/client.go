package chatcompletion

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.ChatCompletionClient = (*ClientAdapter)(nil)

// Config struct - connection settings of an OpenAI-compatible endpoint
type Config struct {
	BaseURL string // including the version prefix, e.g. https://api.openai.com/v1
	APIKey  string
	Model   string
	Timeout int // seconds
	// MaxRetries bounds attempts on transient failures, 0 means default
	MaxRetries int
}

// ClientAdapter struct - Output adapter for OpenAI-compatible chat completion APIs
type ClientAdapter struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	configModel string
	timeout     time.Duration

	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration

	// Model caching
	cachedModel string
	modelMu     sync.RWMutex
}

// Retry configuration constants
const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 30 * time.Second
	backoffMultiplier   = 2
)

// Streaming configuration constants
const (
	streamingChannelBufferSize = 100
	maxSSELineSize             = 1024 * 1024
)

// NewClientAdapter func - Creates new chat completion client adapter
func NewClientAdapter(config Config) *ClientAdapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:1234/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 60 * time.Second
	}

	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logrus.Infof("Chat completion client initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return &ClientAdapter{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       config.APIKey,
		configModel:  config.Model,
		timeout:      timeout,
		maxRetries:   maxRetries,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
	}
}

func (a *ClientAdapter) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	return req, nil
}

// retryWithBackoff executes an operation with exponential backoff retry logic
func (a *ClientAdapter) retryWithBackoff(ctx context.Context, operation func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	delay := a.initialDelay

	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		resp, err := operation()

		if err != nil {
			if !isTransientError(err, 0) {
				return nil, err
			}
			lastErr = err
			logrus.Warnf("Chat completion attempt %d/%d failed with error: %v, retrying in %v", attempt, a.maxRetries, err, delay)
		} else if resp != nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}

			// Don't retry on 4xx client errors
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, string(body))
			}

			if isTransientError(nil, resp.StatusCode) {
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				lastErr = fmt.Errorf("server error: status %d - %s", resp.StatusCode, string(body))
				logrus.Warnf("Chat completion attempt %d/%d failed with status %d, retrying in %v", attempt, a.maxRetries, resp.StatusCode, delay)
			} else {
				return resp, nil
			}
		}

		if attempt < a.maxRetries {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorTimeout, ctx.Err())
			case <-time.After(delay):
			}

			delay = delay * backoffMultiplier
			if delay > a.maxDelay {
				delay = a.maxDelay
			}
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorTimeout, lastErr)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v after %d attempts", domain.ErrCollaboratorUnavailable, lastErr, a.maxRetries)
	}
	return nil, fmt.Errorf("%w: max retries exceeded", domain.ErrCollaboratorUnavailable)
}

// isTransientError determines if an error or status code is transient and should be retried
func isTransientError(err error, statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	if statusCode >= 400 && statusCode < 500 {
		return false
	}
	if err == nil {
		return false
	}

	// the caller's context is gone, retrying cannot help
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}

// ListModels queries the /models endpoint
func (a *ClientAdapter) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := a.newRequest(ctx, http.MethodGet, "/models", nil)
		if err != nil {
			return nil, err
		}
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read models response: %w", err)
	}
	var modelsResp modelsResponse
	if err := sonic.Unmarshal(body, &modelsResp); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}

	models := make([]domain.ModelInfo, len(modelsResp.Data))
	for i, m := range modelsResp.Data {
		models[i] = domain.ModelInfo{
			ID:      m.ID,
			Object:  m.Object,
			OwnedBy: m.OwnedBy,
		}
	}

	logrus.Infof("Listed %d models", len(models))

	return models, nil
}

// getModel returns the model to use for requests, with caching
func (a *ClientAdapter) getModel(ctx context.Context) (string, error) {
	a.modelMu.RLock()
	if a.cachedModel != "" {
		model := a.cachedModel
		a.modelMu.RUnlock()
		return model, nil
	}
	a.modelMu.RUnlock()

	a.modelMu.Lock()
	defer a.modelMu.Unlock()

	// Double-check after acquiring write lock
	if a.cachedModel != "" {
		return a.cachedModel, nil
	}

	if a.configModel != "" {
		a.cachedModel = a.configModel
		logrus.Infof("Using configured model: %s", a.cachedModel)
		return a.cachedModel, nil
	}

	models, err := a.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get models for selection: %w", err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("%w: no models available", domain.ErrCollaboratorUnavailable)
	}

	a.cachedModel = models[0].ID
	logrus.Infof("Selected first available model: %s", a.cachedModel)

	return a.cachedModel, nil
}

func (a *ClientAdapter) buildRequestBody(ctx context.Context, request domain.ChatCompletionRequest, stream bool) ([]byte, string, error) {
	model, err := a.getModel(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get model: %w", err)
	}
	if request.Model != nil && *request.Model != "" {
		model = *request.Model
	}

	reqBody := chatCompletionAPIRequest{
		Model:       model,
		Messages:    make([]chatMessageAPI, len(request.Messages)),
		Stream:      stream,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}

	for i, msg := range request.Messages {
		apiMsg := chatMessageAPI{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			apiMsg.ToolCalls = append(apiMsg.ToolCalls, toolCallAPI{
				ID:       tc.ID,
				Type:     "function",
				Function: functionCallAPI{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		reqBody.Messages[i] = apiMsg
	}

	for _, tool := range request.Tools {
		reqBody.Tools = append(reqBody.Tools, toolAPI{
			Type: "function",
			Function: functionDefinitionAPI{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if len(reqBody.Tools) > 0 {
		reqBody.ToolChoice = "auto"
	}

	bodyBytes, err := sonic.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}
	return bodyBytes, model, nil
}

// ChatCompletion sends a non-streaming chat completion request
func (a *ClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	bodyBytes, _, err := a.buildRequestBody(ctx, request, false)
	if err != nil {
		return nil, err
	}

	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := a.newRequest(ctx, http.MethodPost, "/chat/completions", bodyBytes)
		if err != nil {
			return nil, err
		}
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read chat completion response: %v", domain.ErrCollaboratorUnavailable, err)
	}
	var apiResp chatCompletionAPIResponse
	if err := sonic.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse chat completion response: %v", domain.ErrCollaboratorUnavailable, err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", domain.ErrCollaboratorUnavailable)
	}

	choice := apiResp.Choices[0]
	response := &domain.ChatCompletionResponse{
		Content:          choice.Message.Content,
		FinishReason:     choice.FinishReason,
		Model:            apiResp.Model,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
		TotalTokens:      apiResp.Usage.TotalTokens,
	}
	for _, tc := range choice.Message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, domain.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	logrus.Debugf("Chat completion successful, model: %s, tokens: %d, tool calls: %d",
		response.Model, response.TotalTokens, len(response.ToolCalls))

	return response, nil
}

// ChatCompletionStream sends a streaming chat completion request
// Returns a read-only channel that emits ChatCompletionChunk as they arrive
func (a *ClientAdapter) ChatCompletionStream(ctx context.Context, request domain.ChatCompletionRequest) (<-chan domain.ChatCompletionChunk, error) {
	bodyBytes, model, err := a.buildRequestBody(ctx, request, true)
	if err != nil {
		return nil, err
	}

	// no retry for streaming, the caller falls back on error
	req, err := a.newRequest(ctx, http.MethodPost, "/chat/completions", bodyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to send streaming request: %v", domain.ErrCollaboratorUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d - %s", domain.ErrCollaboratorUnavailable, resp.StatusCode, string(body))
	}

	chunkChan := make(chan domain.ChatCompletionChunk, streamingChannelBufferSize)

	go a.processStreamingResponse(ctx, resp, chunkChan)

	logrus.Debugf("Started streaming chat completion with model: %s", model)

	return chunkChan, nil
}

// processStreamingResponse parses SSE from the response body and sends chunks to the channel.
// It owns the channel and closes it when done.
func (a *ClientAdapter) processStreamingResponse(ctx context.Context, resp *http.Response, chunkChan chan<- domain.ChatCompletionChunk) {
	defer func() {
		resp.Body.Close()
		close(chunkChan)
	}()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	acc := newToolCallAccumulator()

	for {
		select {
		case <-ctx.Done():
			sendChunk(chunkChan, domain.ChatCompletionChunk{
				Done:  true,
				Error: fmt.Errorf("%w: streaming cancelled: %v", domain.ErrCollaboratorTimeout, ctx.Err()),
			})
			return
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logrus.Errorf("Error reading streaming response: %v", err)
				sendChunk(chunkChan, domain.ChatCompletionChunk{
					Done:  true,
					Error: fmt.Errorf("%w: failed to read streaming response: %v", domain.ErrCollaboratorUnavailable, err),
				})
			} else {
				// EOF without [DONE] is treated as normal completion
				sendChunk(chunkChan, domain.ChatCompletionChunk{Done: true, ToolCalls: acc.result()})
			}
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		delta, done, err := parseSSELine(line)
		if err != nil {
			logrus.Warnf("Error parsing SSE line: %v, line: %s", err, line)
			continue
		}
		if done {
			sendChunk(chunkChan, domain.ChatCompletionChunk{Done: true, ToolCalls: acc.result()})
			return
		}
		if delta == nil {
			continue
		}

		acc.add(delta.ToolCalls)
		if delta.Content != "" {
			sendChunk(chunkChan, domain.ChatCompletionChunk{Content: delta.Content})
		}
	}
}

// sendChunk safely sends a chunk to the channel
func sendChunk(chunkChan chan<- domain.ChatCompletionChunk, chunk domain.ChatCompletionChunk) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("Failed to send chunk (channel may be closed): %v", r)
		}
	}()

	chunkChan <- chunk
}

// parseSSELine parses a single SSE line. It returns the delta of the first choice,
// done=true for the [DONE] marker, or a non-fatal parsing error.
func parseSSELine(line string) (*streamDeltaAPI, bool, error) {
	if !strings.HasPrefix(line, "data:") {
		// event:, id:, retry: or a comment
		return nil, false, nil
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if data == "[DONE]" {
		return nil, true, nil
	}

	var sseResp chatCompletionStreamResponse
	if err := sonic.UnmarshalString(data, &sseResp); err != nil {
		return nil, false, fmt.Errorf("failed to parse SSE JSON: %w", err)
	}
	if len(sseResp.Choices) == 0 {
		return nil, false, nil
	}
	return &sseResp.Choices[0].Delta, false, nil
}

// toolCallAccumulator joins streamed tool-call fragments by index
type toolCallAccumulator struct {
	calls map[int]*domain.ToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: make(map[int]*domain.ToolCall)}
}

func (t *toolCallAccumulator) add(deltas []toolCallDeltaAPI) {
	for _, d := range deltas {
		call, ok := t.calls[d.Index]
		if !ok {
			call = &domain.ToolCall{}
			t.calls[d.Index] = call
		}
		if d.ID != "" {
			call.ID = d.ID
		}
		if d.Function.Name != "" {
			call.Name = d.Function.Name
		}
		call.Arguments += d.Function.Arguments
	}
}

func (t *toolCallAccumulator) result() []domain.ToolCall {
	if len(t.calls) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(t.calls))
	for i := range t.calls {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]domain.ToolCall, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, *t.calls[i])
	}
	return out
}
