// Package models defines data structures for Folio
package models

import (
	"strings"
)

// TradeType is the canonical transaction type. Only BUY and SELL exist;
// anything else is rejected at the import boundary.
type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// NormalizeTradeType canonicalizes a raw trade type string (trim + uppercase).
// Returns the canonical type and whether the input was a recognized type.
func NormalizeTradeType(raw string) (TradeType, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY":
		return TradeTypeBuy, true
	case "SELL":
		return TradeTypeSell, true
	default:
		return "", false
	}
}

// CanonicalSymbol returns the canonical grouping key for a ticker symbol:
// uppercase with surrounding whitespace trimmed. All symbol normalization
// in Folio goes through this function.
func CanonicalSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Transaction is a single recorded trade event. Records are immutable once
// created; an edit is a full replacement performed by the owning store.
type Transaction struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"` // "YYYY-MM-DD", ordering only
	Type     TradeType `json:"type"`
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name,omitempty"`
	Shares   float64   `json:"shares"`
	Price    float64   `json:"price"`
	Account  string    `json:"account,omitempty"`
	Exchange string    `json:"exchange,omitempty"`
	Currency string    `json:"currency,omitempty"`
}

// NormalizeDate strips a time component (e.g. "T00:00:00") from a date
// string, returning just the "YYYY-MM-DD" portion for reliable string
// comparison.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, 'T'); idx == 10 {
		return s[:10]
	}
	return s
}
