package translator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"sehatnama/internal/domain"
)

// MockChatModel is a mock implementation of model.BaseChatModel
type MockChatModel struct {
	GenerateFunc func(ctx context.Context, input []*schema.Message) (*schema.Message, error)

	LastInput []*schema.Message
}

func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.LastInput = input
	return m.GenerateFunc(ctx, input)
}

func (m *MockChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

// TestTranslateSuccess tests prompt shape and trimming
func TestTranslateSuccess(t *testing.T) {
	cm := &MockChatModel{
		GenerateFunc: func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
			return schema.AssistantMessage("  I have had a fever for two days. \n", nil), nil
		},
	}
	tr := NewTranslatorWithModel(cm, time.Second)

	out, err := tr.Translate(context.Background(), "مجھے دو دن سے بخار ہے")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "I have had a fever for two days." {
		t.Errorf("unexpected translation %q", out)
	}
	if len(cm.LastInput) != 2 || cm.LastInput[0].Role != schema.System || cm.LastInput[1].Content != "مجھے دو دن سے بخار ہے" {
		t.Errorf("unexpected prompt: %+v", cm.LastInput)
	}
}

// TestTranslateFailures tests that model errors and empty output are translation failures
func TestTranslateFailures(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ctx context.Context, input []*schema.Message) (*schema.Message, error)
	}{
		{"model error", func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
			return nil, errors.New("boom")
		}},
		{"empty output", func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
			return schema.AssistantMessage("   ", nil), nil
		}},
		{"timeout", func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslatorWithModel(&MockChatModel{GenerateFunc: tt.fn}, 10*time.Millisecond)
			_, err := tr.Translate(context.Background(), "بخار")
			if !errors.Is(err, domain.ErrTranslationFailed) {
				t.Errorf("expected ErrTranslationFailed, got %v", err)
			}
		})
	}
}
