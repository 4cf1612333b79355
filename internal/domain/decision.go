package domain

// Action is what the advisor wants done with a market this cycle.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Decision is one BUY/SELL/HOLD recommendation produced by the advisor.
// Decisions are ephemeral: consumed once by the executor, never persisted.
type Decision struct {
	Action     Action
	MarketID   string
	MarketName string
	Position   Position
	AmountEth  float64
	Reasoning  string
	Confidence float64 // 0..1
}

// AdvisorRequest is the context handed to the advisor each cycle.
type AdvisorRequest struct {
	PortfolioValue float64 // native token units
	OpenPositions  []PositionView
	Markets        []Market
	News           []NewsItem
}

// AdvisorReport is the advisor's full answer for one cycle.
type AdvisorReport struct {
	Decisions               []Decision
	Commentary              string
	RiskAssessment          string
	PortfolioRecommendation string
}
