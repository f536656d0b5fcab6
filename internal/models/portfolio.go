package models

// PriceMap maps canonical symbols to current market prices. A missing key
// means the price is unknown; there is no sentinel value for "unknown".
type PriceMap map[string]float64

// StockSummary is the per-symbol aggregate derived from transaction history.
// It is recomputed in full on every aggregation pass.
type StockSummary struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name"`
	TotalShares   float64       `json:"total_shares"`
	AvgCost       float64       `json:"avg_cost"`
	CurrentPrice  *float64      `json:"current_price"` // nil when no price is known
	TotalInvested float64       `json:"total_invested"`
	RealizedPL    float64       `json:"realized_pl"`
	Transactions  []Transaction `json:"transactions"`
}

// MarketValue returns the market value of the held shares, or the cost basis
// when no current price is known.
func (s StockSummary) MarketValue() float64 {
	if s.CurrentPrice != nil && s.TotalShares > 0 {
		return s.TotalShares * *s.CurrentPrice
	}
	return s.TotalInvested
}

// PortfolioStats is the whole-portfolio aggregate.
type PortfolioStats struct {
	TotalValue        float64 `json:"total_value"`
	TotalCostBasis    float64 `json:"total_cost_basis"`
	TotalRealizedPL   float64 `json:"total_realized_pl"`
	TotalUnrealizedPL float64 `json:"total_unrealized_pl"`
}

// PortfolioView is the full derived output served to clients: ordered
// per-symbol summaries plus portfolio-level stats.
type PortfolioView struct {
	Summaries []StockSummary `json:"summaries"`
	Stats     PortfolioStats `json:"stats"`
}

// PriceSnapshot is a persisted set of current prices for a user.
type PriceSnapshot struct {
	UserID  string   `json:"user_id"`
	Prices  PriceMap `json:"prices"`
	Updated string   `json:"updated,omitempty"`
}
