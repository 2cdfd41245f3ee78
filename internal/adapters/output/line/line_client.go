package line

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.LineClient = (*LineClientAdapter)(nil)

// MessagingAPI is the part of the LINE SDK client the adapter uses
type MessagingAPI interface {
	ReplyMessage(replyMessageRequest *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
	PushMessage(pushMessageRequest *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineClientAdapter struct - Output adapter for LINE messaging platform
type LineClientAdapter struct {
	client MessagingAPI
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(channelToken string) (*LineClientAdapter, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}
	return NewLineClientAdapterWithAPI(client), nil
}

// NewLineClientAdapterWithAPI func - wraps an existing messaging client
func NewLineClientAdapterWithAPI(client MessagingAPI) *LineClientAdapter {
	return &LineClientAdapter{
		client: client,
	}
}

// ReplyMessage - Sends reply messages to LINE user via reply token
func (a *LineClientAdapter) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	messages := toTextMessages(request.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("no valid messages to send")
	}

	_, err := a.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: request.ReplyToken,
		Messages:   messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send reply message: %w", err)
	}

	logrus.Infof("Sent %d reply messages", len(messages))

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Reply message sent successfully",
	}, nil
}

// PushMessage - Sends push messages to LINE user directly
func (a *LineClientAdapter) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	messages := toTextMessages(request.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("no valid messages to send")
	}

	_, err := a.client.PushMessage(&messaging_api.PushMessageRequest{
		To:       request.To,
		Messages: messages,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("failed to send push message: %w", err)
	}

	logrus.Infof("Sent %d push messages to: %s", len(messages), request.To)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Push message sent successfully",
	}, nil
}

// toTextMessages converts domain messages, skipping empty ones
func toTextMessages(in []domain.LineOutgoingMessage) []messaging_api.MessageInterface {
	messages := make([]messaging_api.MessageInterface, 0, len(in))
	for _, msg := range in {
		if msg.Text == "" {
			logrus.Warn("Skipping empty LINE message")
			continue
		}
		messages = append(messages, &messaging_api.TextMessage{Text: msg.Text})
	}
	return messages
}
