package agent

import (
	"context"
	"log/slog"
	"time"
)

// MaybeTip pays a small amount of the native token to one recipient chosen
// uniformly at random, at most once per interval. The gate advances to the
// check time on success only: a failed transfer leaves it untouched so the
// next eligible cycle retries.
func (a *Agent) MaybeTip(ctx context.Context, now time.Time) {
	if !a.cfg.TipEnabled || len(a.cfg.TipRecipients) == 0 {
		return
	}
	if now.Sub(a.lastTip) < a.cfg.TipInterval {
		return
	}

	recipient := a.cfg.TipRecipients[a.rng.Intn(len(a.cfg.TipRecipients))]
	txHash, err := a.wallet.SendTip(ctx, recipient, a.cfg.TipAmountEth)
	if err != nil {
		slog.Warn("tip failed", "recipient", recipient, "err", err)
		return
	}

	a.lastTip = now
	slog.Info("tip sent",
		"recipient", recipient, "amount_eth", a.cfg.TipAmountEth, "tx", txHash)
}
