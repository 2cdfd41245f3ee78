package http

type (
	// StartInterviewRequest struct - HTTP request DTO
	StartInterviewRequest struct {
		SessionID *string `json:"session_id" validate:"omitempty,max=128" form:"session_id"`
	}

	// SendMessageRequest struct - HTTP request DTO
	SendMessageRequest struct {
		Message string `json:"message" validate:"required,max=4000" form:"message"`
	}

	// LegacySendMessageRequest struct - payload of POST /api/send-message
	LegacySendMessageRequest struct {
		SessionID string `json:"session_id" validate:"required,max=128" form:"session_id"`
		Message   string `json:"message" validate:"required,max=4000" form:"message"`
	}

	// HistoryQuery struct - HTTP query request DTO
	HistoryQuery struct {
		SessionID string `query:"session_id"`
		View      string `query:"view" validate:"historyview"`
	}

	// SynthesizeRequest struct - HTTP request DTO, JSON or form encoded
	SynthesizeRequest struct {
		Text         string `json:"text" validate:"required,max=5000" form:"text"`
		VoiceID      string `json:"voice_id" validate:"omitempty,max=64" form:"voice_id"`
		OutputFormat string `json:"output_format" validate:"omitempty,max=32" form:"output_format"`
	}

	// QueryArchiveRequest struct - HTTP query request DTO
	QueryArchiveRequest struct {
		Language *string `json:"language" validate:"omitempty,oneof=urdu_script roman_urdu english" query:"language"`
		Limit    *int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100" query:"limit"`
		Page     *int    `json:"page,omitempty" validate:"omitempty,gte=1" query:"page"`
		Asc      *bool   `json:"asc,omitempty" query:"asc"`
	}
)
