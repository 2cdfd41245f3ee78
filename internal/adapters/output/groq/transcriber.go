package groq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.Transcriber = (*Transcriber)(nil)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Config struct
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
}

// Transcriber struct - Output adapter for Whisper transcription over an OpenAI-compatible API
type Transcriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewTranscriber func
func NewTranscriber(config Config) *Transcriber {
	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = DefaultBaseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = "whisper-large-v3"
	}
	language := config.Language
	if language == "" {
		language = "ur"
	}

	logrus.Infof("Transcriber initialized with base URL: %s, model: %s", clientConfig.BaseURL, model)

	return &Transcriber{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: language,
	}
}

// Transcribe func
func (t *Transcriber) Transcribe(ctx context.Context, request domain.TranscriptionRequest) (*domain.TranscriptionResult, error) {
	if len(request.Audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", domain.ErrInvalidRequest)
	}
	fileName := request.FileName
	if fileName == "" {
		fileName = "audio.webm"
	}
	language := request.Language
	if language == "" {
		language = t.language
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: fileName,
		Reader:   bytes.NewReader(request.Audio),
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, mapError(err)
	}

	logrus.Infof("Transcribed %d bytes of audio (%.1fs)", len(request.Audio), resp.Duration)

	return &domain.TranscriptionResult{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != http.StatusTooManyRequests {
			return fmt.Errorf("%w: transcription: %v", domain.ErrInvalidRequest, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: transcription: %v", domain.ErrCollaboratorTimeout, err)
	}
	return fmt.Errorf("%w: transcription: %v", domain.ErrCollaboratorUnavailable, err)
}
