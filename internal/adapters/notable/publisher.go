// Package notable commemorates outstanding closed trades on the social
// platforms. It implements ports.NotablePublisher and is invoked once per
// iteration, fire-and-forget.
package notable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
)

// Publisher scans trades closed since its last run and publishes a
// commemoration for those whose |pnl| exceeds the threshold.
type Publisher struct {
	store        ports.Storage
	socials      []ports.Social
	thresholdBps int64

	now       func() time.Time
	lastCheck time.Time
}

// New creates a publisher. The first run covers trades closed after
// construction time.
func New(store ports.Storage, socials []ports.Social, thresholdBps int64) *Publisher {
	return &Publisher{
		store:        store,
		socials:      socials,
		thresholdBps: thresholdBps,
		now:          time.Now,
		lastCheck:    time.Now(),
	}
}

// SetClock replaces the time source for tests.
func (p *Publisher) SetClock(now func() time.Time) {
	p.now = now
	p.lastCheck = now()
}

// PublishNotable posts a commemoration for every notable trade closed
// since the previous call. The window advances regardless of publish
// outcome so a flaky platform cannot cause repeat commemorations.
func (p *Publisher) PublishNotable(ctx context.Context) error {
	now := p.now()
	since := p.lastCheck
	p.lastCheck = now

	closed, err := p.store.ClosedTradesExitedSince(ctx, since)
	if err != nil {
		return fmt.Errorf("notable.PublishNotable: load closed trades: %w", err)
	}

	for _, t := range closed {
		// Notable means |pnl| strictly above the threshold.
		if t.PnLBps >= -p.thresholdBps && t.PnLBps <= p.thresholdBps {
			continue
		}
		content := content(t)
		for _, s := range p.socials {
			if !s.Ready() {
				continue
			}
			postID, err := s.Post(ctx, content)
			if err != nil {
				slog.Warn("notable post failed",
					"platform", s.Name(), "trade", t.ID, "err", err)
				continue
			}
			post := domain.SocialPost{
				Platform:  s.Name(),
				PostID:    postID,
				Content:   content,
				Type:      domain.PostNotable,
				TradeID:   t.ID,
				CreatedAt: now,
			}
			if err := p.store.SaveSocialPost(ctx, post); err != nil {
				slog.Warn("notable post not recorded",
					"platform", s.Name(), "trade", t.ID, "err", err)
			}
		}
	}
	return nil
}

func content(t domain.Trade) string {
	return fmt.Sprintf("🏆 Notable trade: %s %s closed at %+.2f%% (%.3f → %.3f)",
		t.Position, t.MarketName, float64(t.PnLBps)/100, t.EntryPrice, t.ExitPrice)
}
