package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradeagent/internal/adapters/storage"
	"github.com/alejandrodnm/tradeagent/internal/domain"
)

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTrade(id, marketID string, entered time.Time) domain.Trade {
	return domain.Trade{
		ID:          id,
		MarketID:    marketID,
		MarketName:  "Will it happen?",
		Position:    domain.PositionYes,
		AmountEth:   0.1,
		AmountUsd:   300,
		EntryPrice:  0.5,
		EntryTxHash: "0xentry",
		EntryTime:   entered,
		Status:      domain.TradeStatusOpen,
	}
}

func TestTrades_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entered := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTrade(ctx, testTrade("t1", "m1", entered)))

	open, err := store.OpenTrades(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "t1", open[0].ID)
	assert.Equal(t, "m1", open[0].MarketID)
	assert.Equal(t, domain.PositionYes, open[0].Position)
	assert.Equal(t, 0.5, open[0].EntryPrice)
	assert.Nil(t, open[0].ExitTime)
}

func TestCloseTrade_WritesExitFieldsAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entered := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTrade(ctx, testTrade("t1", "m1", entered)))

	exitTime := entered.Add(2 * time.Hour)
	require.NoError(t, store.CloseTrade(ctx, "t1", domain.TradeExit{
		Price:  0.65,
		TxHash: "0xexit",
		Time:   exitTime,
		PnLBps: 3000,
	}))

	open, err := store.OpenTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := store.AllTrades(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	closed := all[0]
	assert.Equal(t, domain.TradeStatusClosed, closed.Status)
	assert.Equal(t, 0.65, closed.ExitPrice)
	assert.Equal(t, "0xexit", closed.ExitTxHash)
	assert.Equal(t, int64(3000), closed.PnLBps)
	require.NotNil(t, closed.ExitTime)
	assert.True(t, closed.ExitTime.Equal(exitTime))
}

func TestCloseTrade_OnlyOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveTrade(ctx, testTrade("t1", "m1", time.Now().UTC())))

	exit := domain.TradeExit{Price: 0.6, TxHash: "0x1", Time: time.Now().UTC(), PnLBps: 2000}
	require.NoError(t, store.CloseTrade(ctx, "t1", exit))

	err := store.CloseTrade(ctx, "t1", exit)
	assert.Error(t, err, "a second close must fail")
}

func TestCloseTrade_UnknownID(t *testing.T) {
	store := newTestStore(t)
	err := store.CloseTrade(context.Background(), "nope", domain.TradeExit{Time: time.Now()})
	assert.Error(t, err)
}

func TestFirstOpenTradeByMarket_FIFO(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// insert newest first to prove the query orders by entry time
	require.NoError(t, store.SaveTrade(ctx, testTrade("newer", "m1", base.Add(time.Hour))))
	require.NoError(t, store.SaveTrade(ctx, testTrade("older", "m1", base)))
	require.NoError(t, store.SaveTrade(ctx, testTrade("other", "m2", base)))

	first, err := store.FirstOpenTradeByMarket(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "older", first.ID)

	// after the oldest closes, the next one is up
	require.NoError(t, store.CloseTrade(ctx, "older", domain.TradeExit{Time: base.Add(2 * time.Hour)}))
	first, err = store.FirstOpenTradeByMarket(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "newer", first.ID)

	none, err := store.FirstOpenTradeByMarket(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAllTrades_OldestEntryFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTrade(ctx, testTrade("second", "m1", base.Add(time.Hour))))
	require.NoError(t, store.SaveTrade(ctx, testTrade("first", "m2", base)))
	require.NoError(t, store.SaveTrade(ctx, testTrade("third", "m3", base.Add(2*time.Hour))))

	all, err := store.AllTrades(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].ID)
	assert.Equal(t, "second", all[1].ID)
	assert.Equal(t, "third", all[2].ID)
}

func TestClosedTradesWindows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// entered yesterday, exited today
	old := testTrade("old", "m1", base.Add(-10*time.Hour))
	require.NoError(t, store.SaveTrade(ctx, old))
	require.NoError(t, store.CloseTrade(ctx, "old", domain.TradeExit{Time: base.Add(time.Hour), PnLBps: 500}))

	// entered and exited today
	today := testTrade("today", "m2", base.Add(2*time.Hour))
	require.NoError(t, store.SaveTrade(ctx, today))
	require.NoError(t, store.CloseTrade(ctx, "today", domain.TradeExit{Time: base.Add(3 * time.Hour), PnLBps: -200}))

	// still open, never counted
	require.NoError(t, store.SaveTrade(ctx, testTrade("open", "m3", base.Add(4*time.Hour))))

	entered, err := store.ClosedTradesEnteredSince(ctx, base)
	require.NoError(t, err)
	require.Len(t, entered, 1)
	assert.Equal(t, "today", entered[0].ID)

	exited, err := store.ClosedTradesExitedSince(ctx, base)
	require.NoError(t, err)
	assert.Len(t, exited, 2)
}

func TestInsertMention_Dedup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	m := domain.Mention{
		Platform:  "telegram",
		MentionID: "42",
		Author:    "alice",
		Content:   "how is it going?",
		CreatedAt: time.Now().UTC(),
	}

	fresh, err := store.InsertMention(ctx, m)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.InsertMention(ctx, m)
	require.NoError(t, err)
	assert.False(t, fresh, "second sighting must not be fresh")

	// same id on another platform is a distinct mention
	m.Platform = "console"
	fresh, err = store.InsertMention(ctx, m)
	require.NoError(t, err)
	assert.True(t, fresh)

	require.NoError(t, store.MarkMentionReplied(ctx, "telegram", "42", "reply-1"))
}

func TestSaveSocialPostAndSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSocialPost(ctx, domain.SocialPost{
		Platform:  "telegram",
		PostID:    "99",
		Content:   "hello",
		Type:      domain.PostDigest,
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.SavePortfolioSnapshot(ctx, domain.PortfolioSnapshot{
		Time:          time.Now().UTC(),
		TotalValue:    1.25,
		OpenPositions: 3,
		DailyPnLBps:   -150,
	}))
}
