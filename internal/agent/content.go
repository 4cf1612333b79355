package agent

// content.go — post text builders. Platform adapters are dumb pipes; all
// wording lives here.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

func entryContent(t domain.Trade, reasoning string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 New position: %s %s\n", t.Position, t.MarketName)
	fmt.Fprintf(&sb, "Size: %.4f ETH @ %.3f\n", t.AmountEth, t.EntryPrice)
	if reasoning != "" {
		fmt.Fprintf(&sb, "Why: %s\n", truncate(reasoning, 200))
	}
	fmt.Fprintf(&sb, "Tx: %s", shortHash(t.EntryTxHash))
	return sb.String()
}

func exitContent(t domain.Trade, exitPrice float64, pnlBps int64, reason domain.ExitReason) string {
	emoji := "🟢"
	if pnlBps < 0 {
		emoji = "🔴"
	}
	return fmt.Sprintf("%s Closed: %s %s\nEntry %.3f → Exit %.3f (%+.2f%%)\nReason: %s",
		emoji, t.Position, t.MarketName,
		t.EntryPrice, exitPrice, float64(pnlBps)/100, reason)
}

func digestContent(balance float64, open, closedToday int, dailyPnLBps int64) string {
	return fmt.Sprintf("📊 Daily digest\nBalance: %.4f ETH\nOpen positions: %d\nClosed today: %d\nDay P&L: %+.2f%%",
		balance, open, closedToday, float64(dailyPnLBps)/100)
}

func roundSummaryContent(stats cycleStats) string {
	commentary := "no"
	if stats.HasCommentary {
		commentary = "yes"
	}
	return fmt.Sprintf("🔁 Cycle: scanned %d markets, %d decisions, %d trades executed, %d open positions, commentary: %s",
		stats.MarketsScanned, stats.Decisions, stats.Executed, stats.OpenPositions, commentary)
}

func lowBalanceContent(address string, balance, minimum float64) string {
	return fmt.Sprintf("⚠️ Low balance: %.4f ETH (minimum %.4f) on %s — trading paused",
		balance, minimum, address)
}

func balanceCheckFailedContent(address string) string {
	return fmt.Sprintf("⚠️ Balance check failed for %s — trading paused this cycle", address)
}

// truncate caps s at max bytes, cutting on a rune boundary so the result
// stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12] + "…"
}
