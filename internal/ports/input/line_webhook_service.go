package input

import (
	"context"

	"sehatnama/internal/domain"
)

// LineWebhookService interface - Input port (use case)
// Runs one interview per LINE user
type LineWebhookService interface {
	// HandleWebhook processes incoming webhook events from LINE
	HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) error
}
