package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// cycleStats aggregates what one iteration did, for the round summary.
type cycleStats struct {
	MarketsScanned int
	Decisions      int
	Executed       int
	OpenPositions  int
	HasCommentary  bool
}

// publishRoundSummary posts the per-iteration summary. It is not
// interval-gated, but a platform without a configured signer is a
// soft-skip with a warning, never an error.
func (a *Agent) publishRoundSummary(ctx context.Context, stats cycleStats) {
	ready := false
	for _, s := range a.socials {
		if s.Ready() {
			ready = true
			break
		}
	}
	if !ready {
		slog.Warn("round summary skipped: no platform has a signer configured")
		return
	}
	a.fanOutPosts(ctx, domain.PostRoundSummary, roundSummaryContent(stats), "")
}

// MaybeDigest publishes the portfolio digest when the interval has
// elapsed and records a portfolio snapshot. The gate timestamp lives in
// process memory only; a restart resets it.
func (a *Agent) MaybeDigest(ctx context.Context) {
	now := a.now()
	if now.Sub(a.lastDigest) < a.cfg.DigestInterval {
		return
	}
	// Advance the gate before publishing: a partially failed digest must
	// not retry every iteration until the interval passes again.
	a.lastDigest = now

	balance, err := a.wallet.Balance(ctx)
	if err != nil {
		slog.Warn("digest: balance unavailable", "err", err)
	}

	open, err := a.store.OpenTrades(ctx)
	if err != nil {
		slog.Warn("digest: open trades unavailable", "err", err)
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	closedToday, err := a.store.ClosedTradesEnteredSince(ctx, midnight)
	if err != nil {
		slog.Warn("digest: closed trades unavailable", "err", err)
	}

	var dailyPnL int64
	for _, t := range closedToday {
		dailyPnL += t.PnLBps
	}

	a.fanOutPosts(ctx, domain.PostDigest,
		digestContent(balance, len(open), len(closedToday), dailyPnL), "")

	snap := domain.PortfolioSnapshot{
		Time:          now,
		TotalValue:    balance,
		OpenPositions: len(open),
		DailyPnLBps:   dailyPnL,
	}
	if err := a.store.SavePortfolioSnapshot(ctx, snap); err != nil {
		slog.Warn("digest: snapshot not recorded", "err", err)
	}

	slog.Info("digest published",
		"open", len(open), "closed_today", len(closedToday), "daily_pnl_bps", dailyPnL)
}
