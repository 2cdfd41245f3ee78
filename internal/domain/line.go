package domain

import "time"

// LineEventType represents the type of webhook event from LINE
type LineEventType string

const (
	// LineEventTypeMessage - Message event
	LineEventTypeMessage LineEventType = "message"
	// LineEventTypeFollow - Follow event, starts an interview
	LineEventTypeFollow LineEventType = "follow"
	// LineEventTypeUnfollow - Unfollow event, abandons the interview
	LineEventTypeUnfollow LineEventType = "unfollow"
	// LineEventTypeOther - Any event the interview ignores
	LineEventTypeOther LineEventType = "other"
)

// LineMessageType represents the type of message
type LineMessageType string

const (
	// LineMessageTypeText - Text message
	LineMessageTypeText LineMessageType = "text"
	// LineMessageTypeOther - Stickers, images and the rest
	LineMessageTypeOther LineMessageType = "other"
)

// LineWebhookEvent represents a LINE webhook event (domain entity)
type LineWebhookEvent struct {
	Type       LineEventType
	Timestamp  time.Time
	UserID     string
	ReplyToken string
	Message    *LineMessage
}

// LineMessage represents a message from LINE
type LineMessage struct {
	ID   string
	Type LineMessageType
	Text string
}

// LineCommand is a chat command understood by the LINE channel
type LineCommand string

const (
	// LineCommandHelp - usage text
	LineCommandHelp LineCommand = "/help"
	// LineCommandRestart - abandon and start over
	LineCommandRestart LineCommand = "/restart"
	// LineCommandRecord - show what has been collected
	LineCommandRecord LineCommand = "/record"
)

// LineMaxTextLength is the longest text a single LINE message may carry
const LineMaxTextLength = 5000

// LineMaxMessagesPerReply is the most messages one reply token accepts
const LineMaxMessagesPerReply = 5

// LineSessionID maps a LINE user onto an interview session identifier
func LineSessionID(userID string) string {
	return "line:" + userID
}
