package polymarket

// trading.go — order submission through the execution relay. The relay
// owns wallet signing and CLOB mechanics; this client only speaks its
// JSON API and maps results to domain types.

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

type relayOrderRequest struct {
	MarketID      string  `json:"market_id"`
	MarketName    string  `json:"market_name"`
	Position      string  `json:"position"`
	AmountEth     float64 `json:"amount_eth"`
	ExpectedPrice float64 `json:"expected_price"`
}

type relayOrderResponse struct {
	MarketID  string  `json:"market_id"` // canonical slug, may differ from request
	Price     float64 `json:"price"`
	TxHash    string  `json:"tx_hash"`
	Timestamp int64   `json:"timestamp"` // unix ms
}

type relayCloseRequest struct {
	MarketID     string  `json:"market_id"`
	MarketName   string  `json:"market_name"`
	Position     string  `json:"position"`
	EntryPrice   float64 `json:"entry_price"`
	CurrentPrice float64 `json:"current_price"`
	AmountUsd    float64 `json:"amount_usd"`
}

type relayCloseResponse struct {
	TxHash    string `json:"tx_hash"`
	Timestamp int64  `json:"timestamp"`
}

type relayPriceResponse struct {
	Price float64 `json:"price"`
}

// ExecuteTrade submits an opening order. The relay resolves symbolic
// market ids to canonical slugs; the resolved id comes back in the
// response.
func (c *Client) ExecuteTrade(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	if c.relayBase == "" {
		return domain.OrderResult{}, fmt.Errorf("polymarket.ExecuteTrade: no relay configured")
	}

	var resp relayOrderResponse
	err := c.post(ctx, c.relayLimiter, c.relayBase+"/orders", relayOrderRequest{
		MarketID:      req.MarketID,
		MarketName:    req.MarketName,
		Position:      string(req.Position),
		AmountEth:     req.AmountEth,
		ExpectedPrice: req.ExpectedPrice,
	}, &resp)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("polymarket.ExecuteTrade: %w", err)
	}

	return domain.OrderResult{
		ResolvedMarketID: resp.MarketID,
		ActualPrice:      resp.Price,
		TxHash:           resp.TxHash,
		Timestamp:        relayTime(resp.Timestamp),
	}, nil
}

// ClosePosition submits a closing order.
func (c *Client) ClosePosition(ctx context.Context, req domain.CloseRequest) (domain.CloseResult, error) {
	if c.relayBase == "" {
		return domain.CloseResult{}, fmt.Errorf("polymarket.ClosePosition: no relay configured")
	}

	var resp relayCloseResponse
	err := c.post(ctx, c.relayLimiter, c.relayBase+"/orders/close", relayCloseRequest{
		MarketID:     req.MarketID,
		MarketName:   req.MarketName,
		Position:     string(req.Position),
		EntryPrice:   req.EntryPrice,
		CurrentPrice: req.CurrentPrice,
		AmountUsd:    req.AmountUsd,
	}, &resp)
	if err != nil {
		return domain.CloseResult{}, fmt.Errorf("polymarket.ClosePosition: %w", err)
	}

	return domain.CloseResult{
		TxHash:    resp.TxHash,
		Timestamp: relayTime(resp.Timestamp),
	}, nil
}

// GetMarketPrice returns the current price for one side of a market.
func (c *Client) GetMarketPrice(ctx context.Context, marketID string, position domain.Position) (float64, error) {
	if c.relayBase == "" {
		return 0, fmt.Errorf("polymarket.GetMarketPrice: no relay configured")
	}

	url := fmt.Sprintf("%s/price?market=%s&position=%s", c.relayBase, marketID, position)
	var resp relayPriceResponse
	if err := c.get(ctx, c.relayLimiter, url, &resp); err != nil {
		return 0, fmt.Errorf("polymarket.GetMarketPrice: %w", err)
	}
	return resp.Price, nil
}

// relayTime converts the relay's unix-ms timestamp, falling back to now
// when the relay omits it.
func relayTime(ms int64) time.Time {
	if ms == 0 {
		return time.Now()
	}
	return time.UnixMilli(ms)
}
