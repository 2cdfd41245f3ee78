package domain

import (
	"fmt"
	"strings"
)

// PlaceholderReply is surfaced when the conversational agent cannot produce a reply.
// The interview continues; the placeholder is never written to the dialogue log.
const PlaceholderReply = "[assistant unavailable] معذرت، اس وقت جواب دستیاب نہیں۔ براہِ کرم اپنی بات دوبارہ بھیجیں۔"

// ReplyKind tags the variant of an AgentReply
type ReplyKind string

const (
	// ReplyKindText - plain conversational reply
	ReplyKindText ReplyKind = "text"
	// ReplyKindExtract - reply carrying record_info requests
	ReplyKindExtract ReplyKind = "extract"
	// ReplyKindComplete - reply asking to close the current section
	ReplyKindComplete ReplyKind = "complete"
)

// ExtractionRequest asks to record Value under (Section, Field).
// An empty Section means the section that is active when the request is applied.
type ExtractionRequest struct {
	Section SectionID `json:"section"`
	Field   string    `json:"field"`
	Value   string    `json:"value"`
}

// Validate reports a malformed request. Field and value are required.
func (e ExtractionRequest) Validate() error {
	if strings.TrimSpace(e.Field) == "" {
		return fmt.Errorf("%w: missing field", ErrMalformedExtraction)
	}
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Errorf("%w: missing value for field %q", ErrMalformedExtraction, e.Field)
	}
	return nil
}

// AgentReply is the normalized output of one agent invocation:
//
//	Text{text} | Extract{text, requests, completeAfter} | Complete{text}
type AgentReply struct {
	Kind        ReplyKind
	Text        string
	Extractions []ExtractionRequest
	// CompleteAfter is set on an Extract reply that also asked to close the section
	CompleteAfter bool
}

// TextReply builds a Text variant
func TextReply(text string) *AgentReply {
	return &AgentReply{Kind: ReplyKindText, Text: text}
}

// ExtractReply builds an Extract variant
func ExtractReply(text string, requests []ExtractionRequest, completeAfter bool) *AgentReply {
	return &AgentReply{
		Kind:          ReplyKindExtract,
		Text:          text,
		Extractions:   requests,
		CompleteAfter: completeAfter,
	}
}

// CompleteReply builds a Complete variant
func CompleteReply(text string) *AgentReply {
	return &AgentReply{Kind: ReplyKindComplete, Text: text}
}

// AgentRequest is everything the agent sees for one invocation
type AgentRequest struct {
	Section     SectionID
	Instruction string
	Turns       []DialogueTurn
}
