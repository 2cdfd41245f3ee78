package domain

import "time"

// DTOs (Data Transfer Objects) - Domain layer request/response structures

type (
	// StartOptions struct - Options for starting an interview
	StartOptions struct {
		// SessionID is used when the caller already owns an identifier (e.g. a LINE user)
		SessionID string
	}

	// StartResult struct - First agent reply of a new interview
	StartResult struct {
		SessionID string
		Message   string
		Section   SectionID
		Degraded  bool
	}

	// SendResult struct - Result of one controller step
	SendResult struct {
		Message string
		Record  Record
		// RecordPatch is the RFC 7396 merge patch from the pre-step to the post-step record
		RecordPatch []byte
		IsComplete  bool
		Section     SectionID
		State       InterviewState
		// Degraded is set when at least one agent call fell back to the placeholder
		Degraded bool
	}

	// SessionSnapshot struct - Read-only view of a session
	SessionSnapshot struct {
		SessionID  string
		Section    SectionID
		State      InterviewState
		Record     Record
		IsComplete bool
		Language   Language
		Turns      int
		CreatedAt  time.Time
	}

	// HistoryEntry struct - One rendered turn
	HistoryEntry struct {
		Role    DialogueRole `json:"role"`
		Content string       `json:"content"`
	}

	// TranscriptionRequest struct - Audio to text
	TranscriptionRequest struct {
		FileName string
		Audio    []byte
		Language string
	}

	// TranscriptionResult struct - Recognized text
	TranscriptionResult struct {
		Text     string
		Language string
		Duration float64
	}

	// SpeechRequest struct - Text to audio
	SpeechRequest struct {
		Text         string
		VoiceID      string
		OutputFormat string
	}

	// SpeechResult struct - Synthesized audio
	SpeechResult struct {
		Audio       []byte
		ContentType string
	}

	// LineWebhookRequest struct - Domain LINE webhook request DTO
	LineWebhookRequest struct {
		Events []LineWebhookEvent
	}

	// LineReplyMessageRequest struct - Domain LINE reply message request DTO
	LineReplyMessageRequest struct {
		ReplyToken string
		Messages   []LineOutgoingMessage
	}

	// LinePushMessageRequest struct - Domain LINE push message request DTO
	LinePushMessageRequest struct {
		To       string
		Messages []LineOutgoingMessage
	}

	// LineOutgoingMessage struct - Domain LINE outgoing text message
	LineOutgoingMessage struct {
		Text string
	}

	// LineMessageResponse struct - Domain LINE API response DTO
	LineMessageResponse struct {
		Status  string
		Message string
	}
)

// HistoryView selects how get_history renders the dialogue log
type HistoryView string

const (
	// HistoryViewOriginal - verbatim log
	HistoryViewOriginal HistoryView = "original"
	// HistoryViewNormalized - native-script turns translated to English
	HistoryViewNormalized HistoryView = "normalized"
	// HistoryViewPatient - alias of original
	HistoryViewPatient HistoryView = "patient"
	// HistoryViewDoctor - alias of normalized
	HistoryViewDoctor HistoryView = "doctor"
)

// Canonical maps aliases onto original/normalized. ok is false for unknown views.
func (v HistoryView) Canonical() (HistoryView, bool) {
	switch v {
	case HistoryViewOriginal, HistoryViewPatient, "":
		return HistoryViewOriginal, true
	case HistoryViewNormalized, HistoryViewDoctor:
		return HistoryViewNormalized, true
	}
	return "", false
}
