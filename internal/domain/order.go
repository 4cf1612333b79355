package domain

import "time"

// OrderRequest asks the trader to open a position.
type OrderRequest struct {
	MarketID      string
	MarketName    string
	Position      Position
	AmountEth     float64
	ExpectedPrice float64
}

// OrderResult is what the exchange reports back after opening.
// ResolvedMarketID, when non-empty, is the canonical slug the exchange
// rewrote the symbolic id to; it supersedes the request's id everywhere
// downstream.
type OrderResult struct {
	ResolvedMarketID string
	ActualPrice      float64
	TxHash           string
	Timestamp        time.Time
}

// CloseRequest asks the trader to exit an open position.
type CloseRequest struct {
	MarketID     string
	MarketName   string
	Position     Position
	EntryPrice   float64
	CurrentPrice float64
	AmountUsd    float64
}

// CloseResult is the exchange's report for a close order.
type CloseResult struct {
	TxHash    string
	Timestamp time.Time
}
