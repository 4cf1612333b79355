package ports

import (
	"context"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// MarketProvider fetches the tradeable universe and headline context.
type MarketProvider interface {
	// FetchMarkets returns the current active binary markets with both
	// side prices and 24h volume.
	FetchMarkets(ctx context.Context) ([]domain.Market, error)

	// FetchNews returns up to limit recent headlines.
	FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
}
