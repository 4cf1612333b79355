package domain

import (
	"math"
	"time"
)

// Position is the side of a binary prediction market.
type Position string

const (
	PositionYes Position = "YES"
	PositionNo  Position = "NO"
)

// TradeStatus represents the lifecycle of a trade: opened on BUY,
// closed exactly once on SELL, never deleted.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "OPEN"
	TradeStatusClosed TradeStatus = "CLOSED"
)

// Trade is a position taken by the agent on a prediction market.
type Trade struct {
	ID          string // UUID (local tracking)
	MarketID    string // canonical market slug (resolved id from the exchange)
	MarketName  string
	Position    Position
	AmountEth   float64
	AmountUsd   float64
	EntryPrice  float64
	EntryTxHash string
	EntryTime   time.Time
	ExitPrice   float64
	ExitTxHash  string
	ExitTime    *time.Time
	PnLBps      int64 // basis points vs entry, set on close
	Status      TradeStatus
}

// TradeExit carries the fields written together with the OPEN → CLOSED
// transition. The storage layer applies them in a single update so the
// transition is atomic.
type TradeExit struct {
	Price  float64
	TxHash string
	Time   time.Time
	PnLBps int64
}

// PnLBps returns profit/loss in basis points relative to the entry price,
// rounded to the nearest integer. The entry is the baseline for both YES
// and NO positions; the sign is not inverted for NO sides.
func PnLBps(entryPrice, currentPrice float64) int64 {
	if entryPrice <= 0 {
		return 0
	}
	return int64(math.Round((currentPrice - entryPrice) / entryPrice * 10000))
}

// ExitReason labels why a position was closed.
type ExitReason string

const (
	ExitStopLoss    ExitReason = "stop-loss"
	ExitTakeProfit  ExitReason = "take-profit"
	ExitSignalShift ExitReason = "signal-shift"
)

// ClassifyExit maps a realized pnl to an exit reason. Both thresholds are
// positive magnitudes in bps.
func ClassifyExit(pnlBps, stopLossBps, takeProfitBps int64) ExitReason {
	switch {
	case pnlBps <= -stopLossBps:
		return ExitStopLoss
	case pnlBps >= takeProfitBps:
		return ExitTakeProfit
	default:
		return ExitSignalShift
	}
}
