package output

import (
	"context"

	"sehatnama/internal/domain"
)

// Transcriber interface - Output port
// Speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, request domain.TranscriptionRequest) (*domain.TranscriptionResult, error)
}

// SpeechSynthesizer interface - Output port
// Text to speech.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, request domain.SpeechRequest) (*domain.SpeechResult, error)
}
