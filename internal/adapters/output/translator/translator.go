package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.Translator = (*Translator)(nil)

// SystemPrompt instructs the model to translate a single patient or agent turn
const SystemPrompt = `You translate Urdu medical interview turns into clear clinical English for a doctor.
Translate the user's text. Keep numbers, drug names and durations exact.
Reply with the translation only, without quotes or commentary.`

// Config struct
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout int // seconds per translation
}

// Translator struct - Output adapter translating through an eino chat model
type Translator struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// NewTranslator func - builds the eino OpenAI chat model from config
func NewTranslator(ctx context.Context, config Config) (*Translator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init translation model: %w", err)
	}
	logrus.Infof("Translator initialized with model: %s", config.Model)
	return NewTranslatorWithModel(cm, time.Duration(config.Timeout)*time.Second), nil
}

// NewTranslatorWithModel func - wraps an existing chat model
func NewTranslatorWithModel(chatModel model.BaseChatModel, timeout time.Duration) *Translator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Translator{chatModel: chatModel, timeout: timeout}
}

// Translate func
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(text),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty translation", domain.ErrTranslationFailed)
	}
	return strings.TrimSpace(resp.Content), nil
}
