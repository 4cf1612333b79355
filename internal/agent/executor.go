package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/google/uuid"
)

// fallbackExpectedPrice is the sentinel used when a market is absent from
// the cycle's price snapshot. It is the mid of a binary market, not a real
// quote; a missing snapshot never blocks a trade.
const fallbackExpectedPrice = 0.5

// ExecutionSummary is the outcome of one decision batch. The three
// buckets always add up to the batch size.
type ExecutionSummary struct {
	Executed    int
	SkippedHold int
	Failed      int
}

// ExecuteDecisions runs every decision in the batch independently. One
// decision failing is logged and counted, never aborts its siblings.
func (a *Agent) ExecuteDecisions(ctx context.Context, decisions []domain.Decision, snap domain.PriceSnapshot) ExecutionSummary {
	var executed, skipped int

	for _, d := range decisions {
		switch d.Action {
		case domain.ActionHold:
			skipped++

		case domain.ActionBuy:
			if err := a.executeBuy(ctx, d, snap); err != nil {
				slog.Error("buy failed", "market", d.MarketID, "err", err)
			} else {
				executed++
			}

		case domain.ActionSell:
			done, err := a.executeSell(ctx, d)
			if err != nil {
				slog.Error("sell failed", "market", d.MarketID, "err", err)
			} else if done {
				executed++
			}
			// A SELL with no matching open position is dropped silently.

		default:
			slog.Warn("unknown decision action", "action", d.Action, "market", d.MarketID)
		}
	}

	summary := ExecutionSummary{
		Executed:    executed,
		SkippedHold: skipped,
		Failed:      len(decisions) - executed - skipped,
	}
	slog.Info("decision batch complete",
		"total", len(decisions),
		"executed", summary.Executed,
		"skipped_hold", summary.SkippedHold,
		"failed", summary.Failed,
	)
	return summary
}

// executeBuy opens a position: submit order, persist the OPEN trade, then
// fan out entry posts. The exchange may rewrite the symbolic market id to
// a canonical slug; the resolved id is what gets persisted and what future
// SELL decisions must match.
func (a *Agent) executeBuy(ctx context.Context, d domain.Decision, snap domain.PriceSnapshot) error {
	expected, ok := snap.PriceFor(d.MarketID, d.Position)
	if !ok {
		slog.Warn("market missing from price snapshot, using fallback expected price",
			"market", d.MarketID)
		expected = fallbackExpectedPrice
	}

	amount := d.AmountEth
	if amount > a.cfg.MaxPositionEth {
		slog.Warn("clamping position size", "market", d.MarketID,
			"requested", d.AmountEth, "max", a.cfg.MaxPositionEth)
		amount = a.cfg.MaxPositionEth
	}

	res, err := a.trader.ExecuteTrade(ctx, domain.OrderRequest{
		MarketID:      d.MarketID,
		MarketName:    d.MarketName,
		Position:      d.Position,
		AmountEth:     amount,
		ExpectedPrice: expected,
	})
	if err != nil {
		return fmt.Errorf("agent.executeBuy: submit order: %w", err)
	}

	marketID := d.MarketID
	if res.ResolvedMarketID != "" {
		marketID = res.ResolvedMarketID
	}

	trade := domain.Trade{
		ID:          uuid.New().String(),
		MarketID:    marketID,
		MarketName:  d.MarketName,
		Position:    d.Position,
		AmountEth:   amount,
		AmountUsd:   amount * a.cfg.EthUsdRate,
		EntryPrice:  res.ActualPrice,
		EntryTxHash: res.TxHash,
		EntryTime:   res.Timestamp,
		Status:      domain.TradeStatusOpen,
	}
	if err := a.store.SaveTrade(ctx, trade); err != nil {
		return fmt.Errorf("agent.executeBuy: persist trade: %w", err)
	}

	slog.Info("position opened",
		"market", marketID, "position", trade.Position,
		"amount_eth", amount, "price", res.ActualPrice, "tx", res.TxHash)

	a.fanOutPosts(ctx, domain.PostTradeEntry, entryContent(trade, d.Reasoning), trade.ID)
	return nil
}

// executeSell closes the oldest open position on the decision's market.
// Returns (false, nil) when there is nothing to close.
func (a *Agent) executeSell(ctx context.Context, d domain.Decision) (bool, error) {
	t, err := a.store.FirstOpenTradeByMarket(ctx, d.MarketID)
	if err != nil {
		return false, fmt.Errorf("agent.executeSell: lookup: %w", err)
	}
	if t == nil {
		slog.Debug("sell decision with no open position, dropping", "market", d.MarketID)
		return false, nil
	}

	current, err := a.trader.GetMarketPrice(ctx, t.MarketID, t.Position)
	if err != nil {
		return false, fmt.Errorf("agent.executeSell: current price: %w", err)
	}

	amountUsd := t.AmountUsd
	if amountUsd == 0 {
		if t.AmountEth > 0 {
			amountUsd = t.AmountEth * a.cfg.EthUsdRate
		} else {
			amountUsd = d.AmountEth * a.cfg.EthUsdRate
		}
	}

	res, err := a.trader.ClosePosition(ctx, domain.CloseRequest{
		MarketID:     t.MarketID,
		MarketName:   t.MarketName,
		Position:     t.Position,
		EntryPrice:   t.EntryPrice,
		CurrentPrice: current,
		AmountUsd:    amountUsd,
	})
	if err != nil {
		return false, fmt.Errorf("agent.executeSell: close order: %w", err)
	}

	pnl := domain.PnLBps(t.EntryPrice, current)
	reason := domain.ClassifyExit(pnl, a.cfg.StopLossBps, a.cfg.TakeProfitBps)

	if err := a.store.CloseTrade(ctx, t.ID, domain.TradeExit{
		Price:  current,
		TxHash: res.TxHash,
		Time:   res.Timestamp,
		PnLBps: pnl,
	}); err != nil {
		return false, fmt.Errorf("agent.executeSell: persist close: %w", err)
	}

	slog.Info("position closed",
		"market", t.MarketID, "position", t.Position,
		"pnl_bps", pnl, "reason", reason, "tx", res.TxHash)

	a.fanOutPosts(ctx, domain.PostTradeExit, exitContent(*t, current, pnl, reason), t.ID)
	return true, nil
}
