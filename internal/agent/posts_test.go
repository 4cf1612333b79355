package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradeagent/internal/agent"
	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
)

func TestFanOut_OnePlatformFailingDoesNotBlockOthers(t *testing.T) {
	broken := &mockSocial{name: "broken", ready: true, postErr: errors.New("api down")}
	working := &mockSocial{name: "working", ready: true}
	store := newMockStorage()
	wallet := &mockWallet{balance: 1.0}
	trader := &mockTrader{prices: map[string]float64{}, priceErrs: map[string]error{}}
	trader.execResult = domain.OrderResult{ActualPrice: 0.6, TxHash: "0xaaa", Timestamp: time.Now()}

	a := agent.New(testConfig(), wallet, &mockMarketProvider{},
		&mockAdvisor{report: &domain.AdvisorReport{}}, trader, store,
		[]ports.Social{broken, working}, nil)

	sum := a.ExecuteDecisions(context.Background(),
		[]domain.Decision{buyDecision("m1", 0.1)}, domain.PriceSnapshot{})

	// the trade itself is unaffected by the broken platform
	assert.Equal(t, 1, sum.Executed)
	require.Len(t, store.saved, 1)

	// the working platform got its post, and only successful publishes
	// are recorded
	assert.Equal(t, 1, working.postCount())
	entries := store.postsOfType(domain.PostTradeEntry)
	require.Len(t, entries, 1)
	assert.Equal(t, "working", entries[0].Platform)
	assert.Equal(t, store.saved[0].ID, entries[0].TradeID)
}

func TestFanOut_UnreadyPlatformIsSkipped(t *testing.T) {
	unready := &mockSocial{name: "unready", ready: false}
	ready := &mockSocial{name: "ready", ready: true}
	store := newMockStorage()
	trader := &mockTrader{prices: map[string]float64{}, priceErrs: map[string]error{}}
	trader.execResult = domain.OrderResult{ActualPrice: 0.6, Timestamp: time.Now()}

	a := agent.New(testConfig(), &mockWallet{balance: 1.0}, &mockMarketProvider{},
		&mockAdvisor{report: &domain.AdvisorReport{}}, trader, store,
		[]ports.Social{unready, ready}, nil)

	a.ExecuteDecisions(context.Background(),
		[]domain.Decision{buyDecision("m1", 0.1)}, domain.PriceSnapshot{})

	assert.Equal(t, 0, unready.postCount())
	assert.Equal(t, 1, ready.postCount())
}
