package domain

import "time"

// PortfolioSnapshot is the aggregate recorded once per digest interval.
type PortfolioSnapshot struct {
	Time          time.Time
	TotalValue    float64
	OpenPositions int
	DailyPnLBps   int64
}

// PositionView is an open trade marked to the current market price.
type PositionView struct {
	Trade        Trade
	CurrentPrice float64
	PnLBps       int64
}
