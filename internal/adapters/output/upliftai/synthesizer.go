package upliftai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.SpeechSynthesizer = (*Synthesizer)(nil)

const (
	// DefaultBaseURL of the UpliftAI API
	DefaultBaseURL = "https://api.upliftai.org/v1"
	// DefaultVoiceID is an Urdu voice
	DefaultVoiceID = "v_meklc281"
	// DefaultOutputFormat is 22.05kHz MP3
	DefaultOutputFormat = "MP3_22050_32"

	synthesisPath   = "/synthesis/text-to-speech"
	maxAudioBytes   = 32 << 20
	defaultMimeType = "audio/mpeg"
)

// Config struct
type Config struct {
	BaseURL      string
	APIKey       string
	VoiceID      string
	OutputFormat string
	Timeout      int // seconds
}

// Synthesizer struct - Output adapter for UpliftAI text to speech
type Synthesizer struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	voiceID      string
	outputFormat string
}

type synthesisRequest struct {
	Text         string `json:"text"`
	VoiceID      string `json:"voiceId"`
	OutputFormat string `json:"outputFormat"`
}

type synthesisResponse struct {
	AudioContent string `json:"audioContent"`
	URL          string `json:"url"`
}

// NewSynthesizer func
func NewSynthesizer(config Config) *Synthesizer {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	voiceID := config.VoiceID
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = DefaultOutputFormat
	}
	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 60 * time.Second
	}

	logrus.Infof("Speech synthesizer initialized with base URL: %s, voice: %s", baseURL, voiceID)

	return &Synthesizer{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKey:       config.APIKey,
		voiceID:      voiceID,
		outputFormat: outputFormat,
	}
}

// Synthesize func
func (s *Synthesizer) Synthesize(ctx context.Context, request domain.SpeechRequest) (*domain.SpeechResult, error) {
	if strings.TrimSpace(request.Text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidRequest)
	}
	payload := synthesisRequest{
		Text:         request.Text,
		VoiceID:      request.VoiceID,
		OutputFormat: request.OutputFormat,
	}
	if payload.VoiceID == "" {
		payload.VoiceID = s.voiceID
	}
	if payload.OutputFormat == "" {
		payload.OutputFormat = s.outputFormat
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+synthesisPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, mapTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, data)
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		return s.decodeJSON(ctx, data)
	case strings.Contains(contentType, "audio"):
		return &domain.SpeechResult{Audio: data, ContentType: contentType}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected synthesis response type %q", domain.ErrCollaboratorUnavailable, contentType)
	}
}

// decodeJSON handles the base64 and download-url response shapes
func (s *Synthesizer) decodeJSON(ctx context.Context, data []byte) (*domain.SpeechResult, error) {
	var result synthesisResponse
	if err := sonic.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode synthesis response: %v", domain.ErrCollaboratorUnavailable, err)
	}

	switch {
	case result.AudioContent != "":
		audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid audio content: %v", domain.ErrCollaboratorUnavailable, err)
		}
		return &domain.SpeechResult{Audio: audio, ContentType: defaultMimeType}, nil
	case result.URL != "":
		return s.download(ctx, result.URL)
	}
	return nil, fmt.Errorf("%w: synthesis response carries no audio", domain.ErrCollaboratorUnavailable)
}

func (s *Synthesizer) download(ctx context.Context, url string) (*domain.SpeechResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, mapTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, audio)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "audio") {
		contentType = defaultMimeType
	}
	return &domain.SpeechResult{Audio: audio, ContentType: contentType}, nil
}

func statusError(status int, body []byte) error {
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return fmt.Errorf("%w: synthesis returned status %d: %s", domain.ErrInvalidRequest, status, string(body))
	}
	return fmt.Errorf("%w: synthesis returned status %d: %s", domain.ErrCollaboratorUnavailable, status, string(body))
}

func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: synthesis: %v", domain.ErrCollaboratorTimeout, err)
	}
	return fmt.Errorf("%w: synthesis: %v", domain.ErrCollaboratorUnavailable, err)
}
