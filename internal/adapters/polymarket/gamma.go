package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

const (
	gammaMarketsPath   = "/markets"
	defaultMarketLimit = 20
)

// gammaMarketsResponse is the GET /markets response from Gamma.
type gammaMarketsResponse []gammaMarket

// gammaMarket carries one market's metadata. Gamma returns several numeric
// fields as JSON strings, hence json.Number and the stringified
// outcomePrices array.
type gammaMarket struct {
	Slug          string      `json:"slug"`
	Question      string      `json:"question"`
	OutcomePrices string      `json:"outcomePrices"` // e.g. `["0.72", "0.28"]`
	Volume24h     json.Number `json:"volume24hr"`
	Active        bool        `json:"active"`
	Closed        bool        `json:"closed"`
}

// marketLimit is applied per fetch; zero means the default.
func (c *Client) limit(n int) int {
	if n > 0 {
		return n
	}
	return defaultMarketLimit
}

// FetchMarkets returns the most active open binary markets, ordered by
// 24h volume. Markets whose prices fail to parse are skipped, not fatal.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	url := fmt.Sprintf("%s%s?active=true&closed=false&order=volume24hr&ascending=false&limit=%d",
		c.gammaBase, gammaMarketsPath, c.limit(c.marketLimit))

	var resp gammaMarketsResponse
	if err := c.get(ctx, c.gammaLimiter, url, &resp); err != nil {
		return nil, fmt.Errorf("polymarket.FetchMarkets: %w", err)
	}

	markets := make([]domain.Market, 0, len(resp))
	for _, gm := range resp {
		if !gm.Active || gm.Closed {
			continue
		}
		yes, no, err := parseOutcomePrices(gm.OutcomePrices)
		if err != nil {
			slog.Debug("skipping market with unparseable prices",
				"slug", gm.Slug, "err", err)
			continue
		}
		vol, _ := gm.Volume24h.Float64()
		markets = append(markets, domain.Market{
			ID:        gm.Slug,
			Name:      gm.Question,
			YesPrice:  yes,
			NoPrice:   no,
			Volume24h: vol,
		})
	}

	slog.Debug("markets fetched", "count", len(markets))
	return markets, nil
}

// FetchNews pulls up to limit headline titles from the configured feed.
// Returns nil when no feed is configured.
func (c *Client) FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	if c.newsFeedURL == "" {
		return nil, nil
	}

	var resp []struct {
		Title string `json:"title"`
	}
	if err := c.get(ctx, c.gammaLimiter, c.newsFeedURL, &resp); err != nil {
		return nil, fmt.Errorf("polymarket.FetchNews: %w", err)
	}

	news := make([]domain.NewsItem, 0, len(resp))
	for _, item := range resp {
		if item.Title == "" {
			continue
		}
		news = append(news, domain.NewsItem{Title: item.Title})
		if limit > 0 && len(news) == limit {
			break
		}
	}
	return news, nil
}

// parseOutcomePrices decodes Gamma's stringified two-element price array.
func parseOutcomePrices(raw string) (yes, no float64, err error) {
	var prices []json.Number
	if err := json.Unmarshal([]byte(raw), &prices); err != nil {
		return 0, 0, fmt.Errorf("parse outcomePrices %q: %w", raw, err)
	}
	if len(prices) < 2 {
		return 0, 0, fmt.Errorf("outcomePrices has %d entries, want 2", len(prices))
	}
	if yes, err = prices[0].Float64(); err != nil {
		return 0, 0, fmt.Errorf("yes price: %w", err)
	}
	if no, err = prices[1].Float64(); err != nil {
		return 0, 0, fmt.Errorf("no price: %w", err)
	}
	return yes, no, nil
}
