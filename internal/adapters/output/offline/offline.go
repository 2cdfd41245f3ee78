// Package offline provides deterministic collaborators for running the service
// without network access. They are selected explicitly with provider: offline.
package offline

import (
	"context"
	"fmt"
	"strings"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var (
	_ output.Agent      = (*Agent)(nil)
	_ output.Translator = (*Translator)(nil)
)

// FieldResponse is the record field the offline agent stores every answer under
const FieldResponse = "response"

const acknowledgement = "شکریہ، میں نے نوٹ کر لیا ہے۔"

var questions = map[domain.SectionID]string{
	domain.SectionDemographics: "السلام علیکم! آپ کا نام، عمر اور پیشہ کیا ہے؟",
	domain.SectionComplaint:    "آپ کو کیا تکلیف ہے اور کب سے ہے؟",
	domain.SectionHPCPain:      "درد کہاں ہے، کب شروع ہوا اور کیسا ہے؟",
	domain.SectionSystems:      "کیا آپ کو بخار، کھانسی یا سانس کی کوئی تکلیف ہے؟",
	domain.SectionPMH:          "کیا آپ کو پہلے کوئی بیماری رہی ہے؟ Sugar یا Pressure؟",
	domain.SectionDrugs:        "آپ کون سی دوائیں لیتے ہیں؟ کسی دوا سے Allergy ہے؟",
	domain.SectionSocial:       "کیا آپ سگریٹ پیتے ہیں؟ گھر میں کون کون ہے؟",
}

// Agent asks one question per section and records the next patient answer verbatim
type Agent struct{}

// NewAgent func
func NewAgent() *Agent {
	return &Agent{}
}

// Respond func
func (a *Agent) Respond(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorTimeout, err)
	}

	n := len(request.Turns)
	if n > 0 && request.Turns[n-1].Role == domain.RolePatient {
		answer := strings.TrimSpace(request.Turns[n-1].Content)
		if answer != "" {
			return domain.ExtractReply(acknowledgement, []domain.ExtractionRequest{
				{Section: request.Section, Field: FieldResponse, Value: answer},
			}, true), nil
		}
	}

	return domain.TextReply(Question(request.Section)), nil
}

// RespondStream func - delivers the reply word by word
func (a *Agent) RespondStream(ctx context.Context, request domain.AgentRequest, onToken func(string)) (*domain.AgentReply, error) {
	reply, err := a.Respond(ctx, request)
	if err != nil {
		return nil, err
	}
	if onToken != nil {
		words := strings.SplitAfter(reply.Text, " ")
		for _, w := range words {
			if w != "" {
				onToken(w)
			}
		}
	}
	return reply, nil
}

// Question returns the offline question for a section
func Question(section domain.SectionID) string {
	if q, ok := questions[section]; ok {
		return q
	}
	return fmt.Sprintf("براہ کرم %s کے بارے میں بتائیں۔", section)
}

// Translator marks text instead of translating it
type Translator struct{}

// NewTranslator func
func NewTranslator() *Translator {
	return &Translator{}
}

// Translate func
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}
	return "[untranslated] " + text, nil
}
