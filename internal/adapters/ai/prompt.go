package ai

import (
	"fmt"
	"strings"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

const decisionSystemPrompt = `You are a disciplined prediction-market trader.
Given the portfolio, open positions, tradeable markets and recent headlines,
decide which markets to BUY, SELL or HOLD this cycle.

Respond with ONLY a JSON object, no markdown, in this exact shape:
{
  "decisions": [
    {"action": "BUY|SELL|HOLD", "market_id": "...", "market_name": "...",
     "position": "YES|NO", "amount_eth": 0.0, "reasoning": "...",
     "confidence": 0.0}
  ],
  "commentary": "...",
  "risk_assessment": "...",
  "portfolio_recommendation": "..."
}

Rules:
- SELL only markets listed under OPEN POSITIONS, using their market_id.
- Keep amount_eth small relative to portfolio value.
- HOLD when nothing is compelling; an empty decisions array is fine.`

const replySystemPrompt = `You are the voice of an autonomous trading agent
answering a community message. Be concise (max 2 sentences), friendly, and
never give financial advice or promise returns.`

// buildAnalysisPrompt renders the cycle context for the model.
func buildAnalysisPrompt(req domain.AdvisorRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PORTFOLIO VALUE: %.4f ETH\n\n", req.PortfolioValue)

	sb.WriteString("OPEN POSITIONS:\n")
	if len(req.OpenPositions) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, v := range req.OpenPositions {
		fmt.Fprintf(&sb, "  - %s %s (market_id: %s) entry %.3f now %.3f pnl %+d bps\n",
			v.Trade.Position, v.Trade.MarketName, v.Trade.MarketID,
			v.Trade.EntryPrice, v.CurrentPrice, v.PnLBps)
	}

	sb.WriteString("\nMARKETS:\n")
	for _, m := range req.Markets {
		fmt.Fprintf(&sb, "  - %s (market_id: %s) YES %.3f / NO %.3f vol24h %.0f\n",
			m.Name, m.ID, m.YesPrice, m.NoPrice, m.Volume24h)
	}

	if len(req.News) > 0 {
		sb.WriteString("\nHEADLINES:\n")
		for _, n := range req.News {
			fmt.Fprintf(&sb, "  - %s\n", n.Title)
		}
	}

	return sb.String()
}
