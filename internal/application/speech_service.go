package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/input"
	"sehatnama/internal/ports/output"
)

var _ input.SpeechService = (*SpeechService)(nil)

// SpeechService struct - Pass-through to the speech collaborators.
// Either collaborator may be nil when disabled in configuration.
type SpeechService struct {
	transcriber output.Transcriber
	synthesizer output.SpeechSynthesizer
}

// NewSpeechService func
func NewSpeechService(transcriber output.Transcriber, synthesizer output.SpeechSynthesizer) *SpeechService {
	return &SpeechService{
		transcriber: transcriber,
		synthesizer: synthesizer,
	}
}

// Transcribe func - Use case: audio to text
func (s *SpeechService) Transcribe(ctx context.Context, request domain.TranscriptionRequest) (*domain.TranscriptionResult, error) {
	if s.transcriber == nil {
		return nil, fmt.Errorf("%w: transcription", domain.ErrFeatureDisabled)
	}
	if len(request.Audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", domain.ErrInvalidRequest)
	}
	result, err := s.transcriber.Transcribe(ctx, request)
	if err != nil {
		logrus.Errorf("Transcription of %s failed: %v", request.FileName, err)
		return nil, err
	}
	return result, nil
}

// Synthesize func - Use case: text to audio
func (s *SpeechService) Synthesize(ctx context.Context, request domain.SpeechRequest) (*domain.SpeechResult, error) {
	if s.synthesizer == nil {
		return nil, fmt.Errorf("%w: speech synthesis", domain.ErrFeatureDisabled)
	}
	result, err := s.synthesizer.Synthesize(ctx, request)
	if err != nil {
		logrus.Errorf("Speech synthesis failed: %v", err)
		return nil, err
	}
	return result, nil
}
