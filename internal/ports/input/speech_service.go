package input

import (
	"context"

	"sehatnama/internal/domain"
)

// SpeechService interface - Input port (use case)
type SpeechService interface {
	Transcribe(ctx context.Context, request domain.TranscriptionRequest) (*domain.TranscriptionResult, error)
	Synthesize(ctx context.Context, request domain.SpeechRequest) (*domain.SpeechResult, error)
}
