package ports

import (
	"context"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Social is one outbound platform (Telegram channel, console, ...).
type Social interface {
	// Name identifies the platform in persisted records and logs.
	Name() string

	// Ready reports whether the platform has its signer/credentials
	// configured. Unready platforms are soft-skipped, never errors.
	Ready() bool

	// Post publishes content and returns the platform post id (may be
	// empty when the platform does not assign ids).
	Post(ctx context.Context, content string) (string, error)

	// FetchMentions returns inbound messages addressed to the agent.
	FetchMentions(ctx context.Context) ([]domain.InboundMention, error)

	// Reply answers a specific mention and returns the reply id.
	Reply(ctx context.Context, targetID, text string) (string, error)
}

// NotablePublisher commemorates outstanding closed trades. The agent calls
// it once per iteration, after trade execution and before mention
// processing; failures are logged and never propagate.
type NotablePublisher interface {
	PublishNotable(ctx context.Context) error
}
