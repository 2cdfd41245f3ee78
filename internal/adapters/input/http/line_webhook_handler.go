package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/input"
)

// LineWebhookHandler struct - Primary/Driving adapter for LINE webhook
type LineWebhookHandler struct {
	service       input.LineWebhookService
	channelSecret string
}

// NewLineWebhookHandler func - Creates new LINE webhook handler
func NewLineWebhookHandler(service input.LineWebhookService, channelSecret string) *LineWebhookHandler {
	return &LineWebhookHandler{
		service:       service,
		channelSecret: channelSecret,
	}
}

// HandleWebhook func - Handles incoming LINE webhook requests
// @Summary LINE Webhook
// @Description Each LINE user runs one interview; signature is checked with the channel secret
// @Tags LINE
// @Accept application/json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /webhook/line [post]
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// The SDK validates signatures on a net/http request
	httpReq, err := http.NewRequest(http.MethodPost, "/webhook/line", bytes.NewReader(c.Body()))
	if err != nil {
		logrus.Errorf("Failed to create http request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal error",
		})
	}
	c.Request().Header.VisitAll(func(key, value []byte) {
		httpReq.Header.Set(string(key), string(value))
	})

	cb, err := webhook.ParseRequest(h.channelSecret, httpReq)
	if err != nil {
		logrus.Errorf("Failed to parse webhook request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid signature or request",
		})
	}

	events := make([]domain.LineWebhookEvent, 0, len(cb.Events))
	for _, event := range cb.Events {
		if domainEvent := convertToDomainEvent(event); domainEvent != nil {
			events = append(events, *domainEvent)
		}
	}

	if err := h.service.HandleWebhook(c.UserContext(), domain.LineWebhookRequest{Events: events}); err != nil {
		logrus.Errorf("Failed to handle webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to process webhook",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}

// convertToDomainEvent - Converts LINE SDK event to domain event
func convertToDomainEvent(event webhook.EventInterface) *domain.LineWebhookEvent {
	switch e := event.(type) {
	case webhook.MessageEvent:
		domainEvent := &domain.LineWebhookEvent{
			Type:       domain.LineEventTypeMessage,
			Timestamp:  time.UnixMilli(e.Timestamp),
			UserID:     sourceUserID(e.Source),
			ReplyToken: e.ReplyToken,
		}
		switch msg := e.Message.(type) {
		case webhook.TextMessageContent:
			domainEvent.Message = &domain.LineMessage{
				ID:   msg.Id,
				Type: domain.LineMessageTypeText,
				Text: msg.Text,
			}
		default:
			domainEvent.Message = &domain.LineMessage{Type: domain.LineMessageTypeOther}
		}
		return domainEvent

	case webhook.FollowEvent:
		return &domain.LineWebhookEvent{
			Type:       domain.LineEventTypeFollow,
			Timestamp:  time.UnixMilli(e.Timestamp),
			UserID:     sourceUserID(e.Source),
			ReplyToken: e.ReplyToken,
		}

	case webhook.UnfollowEvent:
		return &domain.LineWebhookEvent{
			Type:      domain.LineEventTypeUnfollow,
			Timestamp: time.UnixMilli(e.Timestamp),
			UserID:    sourceUserID(e.Source),
		}

	default:
		logrus.Warnf("Unsupported event type: %T", event)
		return nil
	}
}

// sourceUserID - the interview belongs to the user, also inside groups and rooms
func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}
