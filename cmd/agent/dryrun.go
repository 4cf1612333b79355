package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
)

// stubWallet satisfies the health gate without an RPC connection.
type stubWallet struct {
	balance float64
}

func (s *stubWallet) Balance(ctx context.Context) (float64, error) { return s.balance, nil }

func (s *stubWallet) Address() string { return "0xDRYRUN" }

func (s *stubWallet) SendTip(ctx context.Context, recipient string, amountEth float64) (string, error) {
	return "", fmt.Errorf("stubWallet.SendTip: disabled in dry-run")
}

// stubTrader simulates fills at the expected price. Price reads are
// harmless GETs, so they go through the real client when it can serve
// them.
type stubTrader struct {
	prices ports.Trader
}

func (s *stubTrader) ExecuteTrade(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	slog.Info("dry-run order simulated",
		"market", req.MarketID, "position", req.Position, "amount", req.AmountEth)
	return domain.OrderResult{
		ResolvedMarketID: req.MarketID,
		ActualPrice:      req.ExpectedPrice,
		TxHash:           "0xdry" + uuid.New().String()[:8],
		Timestamp:        time.Now(),
	}, nil
}

func (s *stubTrader) ClosePosition(ctx context.Context, req domain.CloseRequest) (domain.CloseResult, error) {
	slog.Info("dry-run close simulated", "market", req.MarketID, "position", req.Position)
	return domain.CloseResult{
		TxHash:    "0xdry" + uuid.New().String()[:8],
		Timestamp: time.Now(),
	}, nil
}

func (s *stubTrader) GetMarketPrice(ctx context.Context, marketID string, position domain.Position) (float64, error) {
	return s.prices.GetMarketPrice(ctx, marketID, position)
}
