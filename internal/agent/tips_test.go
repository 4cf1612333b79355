package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradeagent/internal/agent"
)

func tipConfig() agent.Config {
	cfg := testConfig()
	cfg.TipEnabled = true
	cfg.TipInterval = 24 * time.Hour
	cfg.TipAmountEth = 0.001
	cfg.TipRecipients = []string{"0xaaa", "0xbbb"}
	return cfg
}

func TestMaybeTip_FiresOncePerInterval(t *testing.T) {
	env := newTestEnv(tipConfig())
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	env.agent.MaybeTip(context.Background(), t0)
	require.Len(t, env.wallet.tipCalls, 1)
	assert.Contains(t, []string{"0xaaa", "0xbbb"}, env.wallet.tipCalls[0])

	// within the interval: no second payout
	env.agent.MaybeTip(context.Background(), t0.Add(time.Hour))
	assert.Len(t, env.wallet.tipCalls, 1)

	// past the interval: fires again
	env.agent.MaybeTip(context.Background(), t0.Add(25*time.Hour))
	assert.Len(t, env.wallet.tipCalls, 2)
}

func TestMaybeTip_FailedTransferRetriesNextCycle(t *testing.T) {
	env := newTestEnv(tipConfig())
	env.wallet.tipErr = errors.New("insufficient gas")
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	env.agent.MaybeTip(context.Background(), t0)
	// the gate did not advance, so the very next cycle retries
	env.agent.MaybeTip(context.Background(), t0.Add(time.Minute))
	assert.Len(t, env.wallet.tipCalls, 2)

	// once the transfer succeeds the gate holds
	env.wallet.tipErr = nil
	env.agent.MaybeTip(context.Background(), t0.Add(2*time.Minute))
	env.agent.MaybeTip(context.Background(), t0.Add(3*time.Minute))
	assert.Len(t, env.wallet.tipCalls, 3)
}

func TestMaybeTip_DisabledOrNoRecipients(t *testing.T) {
	cfg := tipConfig()
	cfg.TipEnabled = false
	env := newTestEnv(cfg)
	env.agent.MaybeTip(context.Background(), time.Now())
	assert.Empty(t, env.wallet.tipCalls)

	cfg = tipConfig()
	cfg.TipRecipients = nil
	env = newTestEnv(cfg)
	env.agent.MaybeTip(context.Background(), time.Now())
	assert.Empty(t, env.wallet.tipCalls)
}
