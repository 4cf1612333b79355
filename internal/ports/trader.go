package ports

import (
	"context"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Trader submits orders against the exchange.
type Trader interface {
	// ExecuteTrade opens a position. The result may carry a resolved
	// market id that supersedes the request's symbolic id.
	ExecuteTrade(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)

	// ClosePosition exits an open position.
	ClosePosition(ctx context.Context, req domain.CloseRequest) (domain.CloseResult, error)

	// GetMarketPrice returns the current price for one side of a market.
	GetMarketPrice(ctx context.Context, marketID string, position domain.Position) (float64, error)
}
