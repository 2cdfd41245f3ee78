package http

import (
	"net/http"
	"time"

	"sehatnama/internal/domain"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// BadRequest response
	BadRequest = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	// NotFound response
	NotFound = Status{Code: http.StatusNotFound, Message: []string{"Sorry, session not found"}}
	// ConFlict response
	ConFlict = Status{Code: http.StatusConflict, Message: []string{"Sorry, the interview is already finished"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
	// BadGateway response
	BadGateway = Status{Code: http.StatusBadGateway, Message: []string{"Sorry, an upstream service is unavailable"}}
	// ServiceUnavailable response
	ServiceUnavailable = Status{Code: http.StatusServiceUnavailable, Message: []string{"Sorry, this feature is disabled"}}
	// GatewayTimeout response
	GatewayTimeout = Status{Code: http.StatusGatewayTimeout, Message: []string{"Sorry, an upstream service timed out"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`

	CurrentPage *int   `json:"current_page,omitempty"`
	PerPage     *int   `json:"per_page,omitempty"`
	TotalItem   *int64 `json:"total_item,omitempty"`
}

// Status struct
type Status struct {
	Code    int      `json:"code,omitempty"`
	Message []string `json:"message,omitempty"`
}

type (
	// HealthResponse struct
	HealthResponse struct {
		Status        string `json:"status"`
		AgentProvider string `json:"agent_provider"`
		Archive       bool   `json:"archive"`
	}

	// StartInterviewResponse struct - HTTP response DTO for a new interview
	StartInterviewResponse struct {
		SessionID string           `json:"session_id"`
		Message   string           `json:"message"`
		Section   domain.SectionID `json:"section"`
		Degraded  bool             `json:"degraded,omitempty"`
	}

	// SendMessageResponse struct - HTTP response DTO for one controller step
	SendMessageResponse struct {
		Message       string                 `json:"message"`
		CollectedData domain.Record          `json:"collected_data"`
		RecordPatch   map[string]interface{} `json:"record_patch"`
		IsComplete    bool                   `json:"is_complete"`
		Section       domain.SectionID       `json:"section"`
		State         domain.InterviewState  `json:"state"`
		Degraded      bool                   `json:"degraded,omitempty"`
	}

	// SnapshotResponse struct - HTTP response DTO for session progress
	SnapshotResponse struct {
		SessionID  string                `json:"session_id"`
		Section    domain.SectionID      `json:"section"`
		State      domain.InterviewState `json:"state"`
		Record     domain.Record         `json:"record"`
		IsComplete bool                  `json:"is_complete"`
		Language   domain.Language       `json:"language,omitempty"`
		Turns      int                   `json:"turns"`
		CreatedAt  time.Time             `json:"created_at"`
	}

	// HistoryResponse struct - HTTP response DTO for a rendered dialogue log
	HistoryResponse struct {
		SessionID string                `json:"session_id"`
		View      string                `json:"view"`
		History   []domain.HistoryEntry `json:"history"`
	}

	// TranscriptionResponse struct
	TranscriptionResponse struct {
		Text     string  `json:"text"`
		Language string  `json:"language,omitempty"`
		Duration float64 `json:"duration,omitempty"`
	}

	// LegacyStartResponse struct - payload of POST /api/start-interview
	LegacyStartResponse struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}

	// LegacySendResponse struct - payload of POST /api/send-message
	LegacySendResponse struct {
		Message       string        `json:"message"`
		CollectedData domain.Record `json:"collected_data"`
		IsComplete    bool          `json:"is_complete"`
	}

	// LegacyErrorResponse struct - error payload of the compatibility routes
	LegacyErrorResponse struct {
		Error   string `json:"error"`
		Details string `json:"details,omitempty"`
	}
)
