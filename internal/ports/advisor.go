package ports

import (
	"context"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Advisor turns portfolio + market context into trade decisions.
type Advisor interface {
	// Analyze produces this cycle's decisions plus optional commentary.
	Analyze(ctx context.Context, req domain.AdvisorRequest) (*domain.AdvisorReport, error)

	// GenerateReply writes a short answer to an inbound community message.
	GenerateReply(ctx context.Context, text string) (string, error)
}
