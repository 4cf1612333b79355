package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Reconcile marks every open trade to the current market price. The price
// fetches run concurrently and rejoin before returning; a failed fetch
// drops that one position from the result and never aborts the others.
func (a *Agent) Reconcile(ctx context.Context, open []domain.Trade) []domain.PositionView {
	if len(open) == 0 {
		return nil
	}

	views := make([]*domain.PositionView, len(open))
	var wg sync.WaitGroup
	for i, t := range open {
		wg.Add(1)
		go func(i int, t domain.Trade) {
			defer wg.Done()
			price, err := a.trader.GetMarketPrice(ctx, t.MarketID, t.Position)
			if err != nil {
				slog.Warn("price fetch failed, skipping position",
					"market", t.MarketID, "position", t.Position, "err", err)
				return
			}
			views[i] = &domain.PositionView{
				Trade:        t,
				CurrentPrice: price,
				PnLBps:       domain.PnLBps(t.EntryPrice, price),
			}
		}(i, t)
	}
	wg.Wait()

	out := make([]domain.PositionView, 0, len(open))
	for _, v := range views {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
