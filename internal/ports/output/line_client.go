package output

import "sehatnama/internal/domain"

// LineClient interface - Output port
// Defines what the LINE channel needs from the LINE messaging platform
type LineClient interface {
	// ReplyMessage answers an event through its reply token
	ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error)

	// PushMessage sends messages to a user without a reply token
	PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)
}
