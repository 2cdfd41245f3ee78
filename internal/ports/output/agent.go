package output

import (
	"context"

	"sehatnama/internal/domain"
)

// Agent interface - Output port
// The conversational agent. Every provider quirk is normalized into domain.AgentReply
// by the implementation; the controller never inspects provider payloads.
type Agent interface {
	// Respond produces one reply for the active section
	Respond(ctx context.Context, request domain.AgentRequest) (*domain.AgentReply, error)

	// RespondStream produces the same reply as Respond while passing text deltas to onToken
	RespondStream(ctx context.Context, request domain.AgentRequest, onToken func(string)) (*domain.AgentReply, error)
}
