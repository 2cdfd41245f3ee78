package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/input"
	"sehatnama/internal/ports/output"
)

var _ input.LineWebhookService = (*LineWebhookService)(nil)

const (
	lineHelpText = "Commands:\n" +
		"/help - یہ پیغام\n" +
		"/restart - نیا انٹرویو شروع کریں\n" +
		"/record - اب تک جمع شدہ معلومات"
	lineFinishedText = "آپ کا انٹرویو مکمل ہو گیا ہے۔ شکریہ! نیا انٹرویو شروع کرنے کے لیے /restart لکھیں۔"
	lineEmptyRecord  = "ابھی تک کوئی معلومات جمع نہیں ہوئیں۔"
	lineNoInterview  = "کوئی انٹرویو جاری نہیں۔ شروع کرنے کے لیے کوئی پیغام بھیجیں۔"
	lineTextOnly     = "براہ کرم اپنا جواب لکھ کر بھیجیں۔"
)

// LineWebhookService struct - Application service running one interview per LINE user
type LineWebhookService struct {
	lineClient output.LineClient
	interviews input.InterviewService
}

// NewLineWebhookService func - Creates new LINE webhook service
func NewLineWebhookService(lineClient output.LineClient, interviews input.InterviewService) *LineWebhookService {
	return &LineWebhookService{
		lineClient: lineClient,
		interviews: interviews,
	}
}

// HandleWebhook func - Use case: Handle incoming webhook events from LINE
func (s *LineWebhookService) HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) error {
	for _, event := range request.Events {
		logrus.Infof("Received LINE event: type=%s, userID=%s", event.Type, event.UserID)

		if event.UserID == "" {
			logrus.Warnf("Ignoring LINE event without a user: type=%s", event.Type)
			continue
		}

		switch event.Type {
		case domain.LineEventTypeMessage:
			if err := s.handleMessageEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to handle message event: %v", err)
				return err
			}

		case domain.LineEventTypeFollow:
			if err := s.handleFollowEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to handle follow event: %v", err)
				return err
			}

		case domain.LineEventTypeUnfollow:
			if err := s.handleUnfollowEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to handle unfollow event: %v", err)
				return err
			}

		default:
			logrus.Infof("Unhandled event type: %s", event.Type)
		}
	}

	return nil
}

// handleMessageEvent - one patient utterance, or a command
func (s *LineWebhookService) handleMessageEvent(ctx context.Context, event domain.LineWebhookEvent) error {
	if event.Message == nil {
		return nil
	}

	var texts []string
	if event.Message.Type != domain.LineMessageTypeText {
		logrus.Infof("Non-text message from %s: type=%s", event.UserID, event.Message.Type)
		texts = []string{lineTextOnly}
	} else {
		text := strings.TrimSpace(event.Message.Text)
		if text == "" {
			return nil
		}

		var err error
		if strings.HasPrefix(text, "/") {
			texts, err = s.handleCommand(ctx, text, event.UserID)
		} else {
			texts, err = s.converse(ctx, text, event.UserID)
		}
		if err != nil {
			return err
		}
	}

	if event.ReplyToken == "" {
		return nil
	}
	messages := buildLineMessages(texts...)
	if len(messages) == 0 {
		return nil
	}
	if _, err := s.lineClient.ReplyMessage(domain.LineReplyMessageRequest{
		ReplyToken: event.ReplyToken,
		Messages:   messages,
	}); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// converse forwards the utterance to the user's interview, starting one when needed
func (s *LineWebhookService) converse(ctx context.Context, text, userID string) ([]string, error) {
	sessionID := domain.LineSessionID(userID)
	var texts []string

	result, err := s.interviews.Send(ctx, sessionID, text)
	if errors.Is(err, domain.ErrSessionNotFound) {
		started, startErr := s.interviews.Start(ctx, domain.StartOptions{SessionID: sessionID})
		switch {
		case errors.Is(startErr, domain.ErrSessionExists):
			// started concurrently, e.g. by a follow event
		case startErr != nil:
			return nil, fmt.Errorf("failed to start interview: %w", startErr)
		default:
			texts = append(texts, started.Message)
		}
		result, err = s.interviews.Send(ctx, sessionID, text)
	}
	if errors.Is(err, domain.ErrInterviewFinished) {
		return append(texts, lineFinishedText), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	texts = append(texts, result.Message)
	if result.IsComplete {
		texts = append(texts, lineFinishedText)
	}
	return texts, nil
}

// handleCommand - Business logic for command processing
func (s *LineWebhookService) handleCommand(ctx context.Context, text, userID string) ([]string, error) {
	parts := strings.Fields(text)
	command := domain.LineCommand(strings.ToLower(parts[0]))
	sessionID := domain.LineSessionID(userID)

	switch command {
	case domain.LineCommandHelp:
		return []string{lineHelpText}, nil

	case domain.LineCommandRestart:
		if err := s.interviews.Abandon(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		started, err := s.interviews.Start(ctx, domain.StartOptions{SessionID: sessionID})
		if err != nil {
			return nil, fmt.Errorf("failed to restart interview: %w", err)
		}
		return []string{started.Message}, nil

	case domain.LineCommandRecord:
		snapshot, err := s.interviews.Snapshot(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return []string{lineNoInterview}, nil
		}
		if err != nil {
			return nil, err
		}
		return []string{formatRecord(snapshot.Record)}, nil

	default:
		return []string{fmt.Sprintf("Unknown command: %s\n\n%s", command, lineHelpText)}, nil
	}
}

// handleFollowEvent - a new follower starts an interview; a returning follower
// with a live interview keeps it
func (s *LineWebhookService) handleFollowEvent(ctx context.Context, event domain.LineWebhookEvent) error {
	logrus.Infof("User followed: userID=%s", event.UserID)

	started, err := s.interviews.Start(ctx, domain.StartOptions{SessionID: domain.LineSessionID(event.UserID)})
	if errors.Is(err, domain.ErrSessionExists) {
		logrus.Infof("Keeping the running interview of userID=%s", event.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}

	if _, err := s.lineClient.PushMessage(domain.LinePushMessageRequest{
		To:       event.UserID,
		Messages: buildLineMessages(started.Message),
	}); err != nil {
		return fmt.Errorf("failed to send greeting: %w", err)
	}
	return nil
}

// handleUnfollowEvent - the interview of a user who left is discarded
func (s *LineWebhookService) handleUnfollowEvent(ctx context.Context, event domain.LineWebhookEvent) error {
	logrus.Infof("User unfollowed: userID=%s", event.UserID)
	err := s.interviews.Abandon(ctx, domain.LineSessionID(event.UserID))
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// buildLineMessages splits texts at the LINE length limit and keeps at most
// as many messages as one reply accepts
func buildLineMessages(texts ...string) []domain.LineOutgoingMessage {
	messages := make([]domain.LineOutgoingMessage, 0, len(texts))
	for _, text := range texts {
		for _, chunk := range splitText(text, domain.LineMaxTextLength) {
			messages = append(messages, domain.LineOutgoingMessage{Text: chunk})
		}
	}
	if len(messages) > domain.LineMaxMessagesPerReply {
		logrus.Warnf("Dropping %d LINE messages over the reply limit", len(messages)-domain.LineMaxMessagesPerReply)
		messages = messages[:domain.LineMaxMessagesPerReply]
	}
	return messages
}

func splitText(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(chunks, string(runes))
}

func formatRecord(record domain.Record) string {
	if record.FieldCount() == 0 {
		return lineEmptyRecord
	}

	sections := make([]string, 0, len(record))
	for section := range record {
		sections = append(sections, string(section))
	}
	sort.Strings(sections)

	var b strings.Builder
	for _, section := range sections {
		fields := record[domain.SectionID(section)]
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString(section)
		b.WriteString(":\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %s\n", name, fields[name])
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
