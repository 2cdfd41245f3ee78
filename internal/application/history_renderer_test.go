package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sehatnama/internal/domain"
)

var mixedTurns = []domain.DialogueTurn{
	{Role: domain.RoleAgent, Content: "السلام علیکم! آپ کا نام کیا ہے؟"},
	{Role: domain.RolePatient, Content: "mera naam Ali hai"},
	{Role: domain.RoleAgent, Content: "آپ کو کیا تکلیف ہے؟"},
	{Role: domain.RolePatient, Content: "مجھے بخار ہے"},
}

func TestRender_OriginalIsVerbatim(t *testing.T) {
	translator := &MockTranslator{}
	renderer := NewHistoryRenderer(translator, time.Second)

	for _, view := range []domain.HistoryView{domain.HistoryViewOriginal, domain.HistoryViewPatient, ""} {
		entries, err := renderer.Render(context.Background(), mixedTurns, view)
		if err != nil {
			t.Fatalf("Render(%q) failed: %v", view, err)
		}
		if len(entries) != len(mixedTurns) {
			t.Fatalf("Expected %d entries, got %d", len(mixedTurns), len(entries))
		}
		for i, e := range entries {
			if e.Content != mixedTurns[i].Content || e.Role != mixedTurns[i].Role {
				t.Errorf("View %q turn %d: expected %q, got %q", view, i, mixedTurns[i].Content, e.Content)
			}
		}
	}
	if len(translator.Calls) != 0 {
		t.Errorf("Expected no translation for the original view, got %d calls", len(translator.Calls))
	}
}

func TestRender_NormalizedTranslatesOnlyNativeScript(t *testing.T) {
	translator := &MockTranslator{}
	renderer := NewHistoryRenderer(translator, time.Second)

	entries, err := renderer.Render(context.Background(), mixedTurns, domain.HistoryViewNormalized)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if entries[1].Content != "mera naam Ali hai" {
		t.Errorf("Expected romanized turn unchanged, got %q", entries[1].Content)
	}
	for _, i := range []int{0, 2, 3} {
		if entries[i].Content != "EN("+mixedTurns[i].Content+")" {
			t.Errorf("Turn %d: expected translation, got %q", i, entries[i].Content)
		}
	}
	if len(translator.Calls) != 3 {
		t.Errorf("Expected 3 translations, got %d", len(translator.Calls))
	}
}

func TestRender_PartialTranslationFailure(t *testing.T) {
	translator := &MockTranslator{
		TranslateFunc: func(ctx context.Context, text string) (string, error) {
			if strings.Contains(text, "بخار") {
				return "", errors.New("provider down")
			}
			return "EN", nil
		},
	}
	renderer := NewHistoryRenderer(translator, time.Second)

	entries, err := renderer.Render(context.Background(), mixedTurns, domain.HistoryViewDoctor)
	if err != nil {
		t.Fatalf("Expected partial success, got %v", err)
	}

	if entries[0].Content != "EN" || entries[2].Content != "EN" {
		t.Errorf("Expected successful turns translated, got %q and %q", entries[0].Content, entries[2].Content)
	}
	if entries[3].Content != mixedTurns[3].Content {
		t.Errorf("Expected failed turn to keep its original content, got %q", entries[3].Content)
	}
}

func TestRender_TranslationTimeoutFallsBack(t *testing.T) {
	translator := &MockTranslator{
		TranslateFunc: func(ctx context.Context, text string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	renderer := NewHistoryRenderer(translator, 5*time.Millisecond)

	entries, err := renderer.Render(context.Background(), mixedTurns[:1], domain.HistoryViewNormalized)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if entries[0].Content != mixedTurns[0].Content {
		t.Errorf("Expected original content after timeout, got %q", entries[0].Content)
	}
}

func TestRender_CachesTranslations(t *testing.T) {
	translator := &MockTranslator{}
	renderer := NewHistoryRenderer(translator, time.Second)

	for i := 0; i < 3; i++ {
		if _, err := renderer.Render(context.Background(), mixedTurns, domain.HistoryViewNormalized); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
	}
	if len(translator.Calls) != 3 {
		t.Errorf("Expected each distinct turn translated once, got %d calls", len(translator.Calls))
	}
}

func TestRender_WithoutTranslator(t *testing.T) {
	renderer := NewHistoryRenderer(nil, time.Second)

	entries, err := renderer.Render(context.Background(), mixedTurns, domain.HistoryViewNormalized)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, e := range entries {
		if e.Content != mixedTurns[i].Content {
			t.Errorf("Turn %d: expected original content, got %q", i, e.Content)
		}
	}
}

func TestRender_UnknownView(t *testing.T) {
	renderer := NewHistoryRenderer(nil, time.Second)
	if _, err := renderer.Render(context.Background(), mixedTurns, "raw"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
}
