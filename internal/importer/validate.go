package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foliohq/folio/internal/models"
)

// candidateRecord is the raw shape Gemini returns, before validation.
type candidateRecord struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Shares   float64 `json:"shares"`
	Price    float64 `json:"price"`
	Account  string  `json:"account"`
	Exchange string  `json:"exchange"`
	Currency string  `json:"currency"`
}

// parseCandidates decodes Gemini's response into candidate records.
func parseCandidates(response string) ([]candidateRecord, error) {
	cleaned := stripMarkdownFences(response)

	var candidates []candidateRecord
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return candidates, nil
}

// stripMarkdownFences removes ```json code fences Gemini sometimes wraps
// responses in.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// acceptedDateLayouts covers the date shapes brokers commonly print.
var acceptedDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// validateCandidates applies the import validation rules to each candidate.
// Accepted records come back as normalized transactions with fresh IDs;
// failures come back as per-record rejections.
func validateCandidates(candidates []candidateRecord) ([]models.Transaction, []models.RejectedRecord) {
	transactions := make([]models.Transaction, 0, len(candidates))
	var rejected []models.RejectedRecord

	for i, c := range candidates {
		reject := func(reason string) {
			raw, _ := json.Marshal(c)
			rejected = append(rejected, models.RejectedRecord{
				Index:  i,
				Reason: reason,
				Raw:    string(raw),
			})
		}

		date, ok := normalizeDate(c.Date)
		if !ok {
			reject(fmt.Sprintf("unrecognized date %q", c.Date))
			continue
		}

		tradeType, ok := models.NormalizeTradeType(c.Type)
		if !ok {
			reject(fmt.Sprintf("unknown trade type %q", c.Type))
			continue
		}

		symbol := models.CanonicalSymbol(c.Symbol)
		if symbol == "" {
			reject("missing symbol")
			continue
		}

		if math.IsNaN(c.Shares) || math.IsInf(c.Shares, 0) || c.Shares <= 0 {
			reject(fmt.Sprintf("invalid share count %v", c.Shares))
			continue
		}

		if math.IsNaN(c.Price) || math.IsInf(c.Price, 0) || c.Price < 0 {
			reject(fmt.Sprintf("invalid price %v", c.Price))
			continue
		}

		transactions = append(transactions, models.Transaction{
			ID:       uuid.New().String(),
			Date:     date,
			Type:     tradeType,
			Symbol:   symbol,
			Name:     strings.TrimSpace(c.Name),
			Shares:   c.Shares,
			Price:    c.Price,
			Account:  strings.TrimSpace(c.Account),
			Exchange: strings.TrimSpace(c.Exchange),
			Currency: strings.ToUpper(strings.TrimSpace(c.Currency)),
		})
	}

	return transactions, rejected
}

// normalizeDate parses a raw date string into canonical "YYYY-MM-DD" form.
func normalizeDate(raw string) (string, bool) {
	raw = models.NormalizeDate(raw)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
