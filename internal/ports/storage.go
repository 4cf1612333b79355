package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Storage persists the agent's durable state: trades, the social post
// audit log, mentions, and portfolio snapshots.
type Storage interface {
	// Trades
	SaveTrade(ctx context.Context, t domain.Trade) error
	// CloseTrade flips a trade to CLOSED and writes all exit fields in a
	// single update.
	CloseTrade(ctx context.Context, id string, exit domain.TradeExit) error
	OpenTrades(ctx context.Context) ([]domain.Trade, error)
	// FirstOpenTradeByMarket returns the oldest open trade for the market
	// (FIFO by entry time), or nil when none exists.
	FirstOpenTradeByMarket(ctx context.Context, marketID string) (*domain.Trade, error)
	// ClosedTradesEnteredSince returns closed trades whose entry is at or
	// after the given time (the digest's "today" window).
	ClosedTradesEnteredSince(ctx context.Context, since time.Time) ([]domain.Trade, error)
	// ClosedTradesExitedSince returns trades closed at or after the given
	// time.
	ClosedTradesExitedSince(ctx context.Context, since time.Time) ([]domain.Trade, error)
	AllTrades(ctx context.Context) ([]domain.Trade, error)

	// Social audit log
	SaveSocialPost(ctx context.Context, p domain.SocialPost) error

	// Mentions. InsertMention reports false when (platform, mention id)
	// was already recorded — the uniqueness constraint is the dedup
	// source of truth.
	InsertMention(ctx context.Context, m domain.Mention) (bool, error)
	MarkMentionReplied(ctx context.Context, platform, mentionID, replyID string) error

	// Snapshots
	SavePortfolioSnapshot(ctx context.Context, s domain.PortfolioSnapshot) error

	Close() error
}
