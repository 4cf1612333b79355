package domain

// Market is a binary prediction market as seen by the scanner.
type Market struct {
	ID        string // slug or symbolic id
	Name      string // question text
	YesPrice  float64
	NoPrice   float64
	Volume24h float64
}

// NewsItem is a headline fed to the advisor for context.
type NewsItem struct {
	Title string
}

// MarketPrices holds both sides of a market at scan time.
type MarketPrices struct {
	Yes float64
	No  float64
}

// PriceSnapshot maps market id → prices for the current cycle only.
// It is rebuilt every iteration and never persisted.
type PriceSnapshot map[string]MarketPrices

// BuildPriceSnapshot indexes the scanned markets by id.
func BuildPriceSnapshot(markets []Market) PriceSnapshot {
	snap := make(PriceSnapshot, len(markets))
	for _, m := range markets {
		snap[m.ID] = MarketPrices{Yes: m.YesPrice, No: m.NoPrice}
	}
	return snap
}

// PriceFor returns the side's price for a market, and whether the market
// was present in this cycle's scan.
func (s PriceSnapshot) PriceFor(marketID string, position Position) (float64, bool) {
	p, ok := s[marketID]
	if !ok {
		return 0, false
	}
	if position == PositionNo {
		return p.No, true
	}
	return p.Yes, true
}
