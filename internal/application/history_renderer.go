package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

// Renderer defaults
const (
	DefaultTranslateTimeout = 20 * time.Second
	maxTranslationCache     = 4096
)

// HistoryRenderer projects a dialogue log into the patient or doctor view
type HistoryRenderer struct {
	translator output.Translator
	timeout    time.Duration

	mu    sync.RWMutex
	cache map[string]string
}

// NewHistoryRenderer func - translator may be nil, in which case the doctor view
// falls back to the original content of every turn
func NewHistoryRenderer(translator output.Translator, timeout time.Duration) *HistoryRenderer {
	if timeout <= 0 {
		timeout = DefaultTranslateTimeout
	}
	return &HistoryRenderer{
		translator: translator,
		timeout:    timeout,
		cache:      make(map[string]string),
	}
}

// Render returns the turns in the requested view
func (r *HistoryRenderer) Render(ctx context.Context, turns []domain.DialogueTurn, view domain.HistoryView) ([]domain.HistoryEntry, error) {
	canonical, ok := view.Canonical()
	if !ok {
		return nil, fmt.Errorf("%w: unknown history view %q", domain.ErrInvalidRequest, view)
	}

	entries := make([]domain.HistoryEntry, len(turns))
	for i, turn := range turns {
		entries[i] = domain.HistoryEntry{Role: turn.Role, Content: turn.Content}
	}
	if canonical == domain.HistoryViewOriginal {
		return entries, nil
	}

	failed := 0
	for i := range entries {
		if !domain.ContainsNativeScript(entries[i].Content) {
			continue
		}
		translated, err := r.translate(ctx, entries[i].Content)
		if err != nil {
			failed++
			logrus.Warnf("Keeping original content of turn %d: %v", i, err)
			continue
		}
		entries[i].Content = translated
	}
	if failed > 0 {
		logrus.Warnf("Normalized history rendered with %d untranslated turns", failed)
	}
	return entries, nil
}

func (r *HistoryRenderer) translate(ctx context.Context, text string) (string, error) {
	if r.translator == nil {
		return "", fmt.Errorf("%w: no translator configured", domain.ErrTranslationFailed)
	}

	key := cacheKey(text)
	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	translated, err := r.translator.Translate(tctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}
	if strings.TrimSpace(translated) == "" {
		return "", fmt.Errorf("%w: empty translation", domain.ErrTranslationFailed)
	}

	r.mu.Lock()
	if len(r.cache) >= maxTranslationCache {
		r.cache = make(map[string]string)
	}
	r.cache[key] = translated
	r.mu.Unlock()

	return translated, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
