// Package accounting implements the weighted-average-cost portfolio engine.
// It is pure computation: storage, pricing, and AI live in the services that
// feed it.
package accounting

import (
	"math"
	"sort"
	"strings"

	"github.com/foliohq/folio/internal/models"
)

// residualEpsilon absorbs floating-point residue from repeated average-cost
// division. Holdings below this threshold after replay (including negative
// residue from over-selling) are clamped to an exact zero position.
const residualEpsilon = 1e-6

// Aggregate transforms an ordered list of transactions and a map of current
// prices into per-symbol summaries and portfolio-level stats using
// weighted-average-cost accounting.
//
// Aggregate is pure: it never mutates its arguments, holds no state, and
// returns identical output for identical input. It does not fail for any
// input shape — malformed or zero-valued numeric fields are skipped, unknown prices
// propagate as nil, and oversold positions clamp to zero.
func Aggregate(transactions []models.Transaction, prices models.PriceMap) ([]models.StockSummary, models.PortfolioStats) {
	// Group by canonical symbol, remembering discovery order so that equal
	// display names keep a stable output order.
	groups := make(map[string][]models.Transaction)
	order := make([]string, 0, len(groups))
	for _, tx := range transactions {
		key := models.CanonicalSymbol(tx.Symbol)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	summaries := make([]models.StockSummary, 0, len(order))
	var stats models.PortfolioStats

	for _, symbol := range order {
		txs := append([]models.Transaction(nil), groups[symbol]...)
		sort.SliceStable(txs, func(i, j int) bool {
			return models.NormalizeDate(txs[i].Date) < models.NormalizeDate(txs[j].Date)
		})

		var sharesHeld, totalCost, realizedPL float64
		for _, tx := range txs {
			if !countable(tx.Shares) || !countable(tx.Price) {
				// A malformed or zero-valued record must not move the
				// totals for the rest of the group.
				continue
			}
			switch tx.Type {
			case models.TradeTypeBuy:
				sharesHeld += tx.Shares
				totalCost += tx.Shares * tx.Price
			case models.TradeTypeSell:
				avgCostPerShare := 0.0
				if sharesHeld > 0 {
					avgCostPerShare = totalCost / sharesHeld
				}
				costOfSold := tx.Shares * avgCostPerShare
				realizedPL += tx.Shares*tx.Price - costOfSold
				sharesHeld -= tx.Shares
				totalCost -= costOfSold
			}
		}

		// Negative-residual clamp: a position within epsilon of zero (or
		// driven negative by over-selling) becomes an exact zero position.
		if sharesHeld < residualEpsilon {
			sharesHeld = 0
			totalCost = 0
		}

		avgCost := 0.0
		if sharesHeld > 0 {
			avgCost = totalCost / sharesHeld
		}

		summary := models.StockSummary{
			Symbol:        symbol,
			Name:          displayName(txs, symbol),
			TotalShares:   sharesHeld,
			AvgCost:       avgCost,
			TotalInvested: totalCost,
			RealizedPL:    realizedPL,
			Transactions:  txs,
		}

		if price, ok := prices[symbol]; ok {
			p := price
			summary.CurrentPrice = &p
		}

		if summary.CurrentPrice != nil && sharesHeld > 0 {
			marketValue := sharesHeld * *summary.CurrentPrice
			stats.TotalValue += marketValue
			stats.TotalUnrealizedPL += marketValue - totalCost
		} else {
			// Unknown price (or no held shares): cost basis stands in for
			// market value and no unrealized P/L is claimed.
			stats.TotalValue += totalCost
		}
		stats.TotalRealizedPL += realizedPL
		stats.TotalCostBasis += totalCost

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})

	return summaries, stats
}

// displayName picks the name of the chronologically-first transaction in the
// (sorted) group, falling back to the canonical symbol when unnamed.
func displayName(sorted []models.Transaction, symbol string) string {
	if len(sorted) > 0 && sorted[0].Name != "" {
		return sorted[0].Name
	}
	return symbol
}

// countable reports whether a numeric field should enter the replay. Zero
// shares or a zero price carry no economic weight and are skipped alongside
// NaN/Inf so they never manufacture phantom value or realized loss.
func countable(f float64) bool {
	return f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
