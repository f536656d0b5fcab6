package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliohq/folio/internal/models"
)

// Summarize produces an AI-written summary of the portfolio. Returns an
// empty string when no Gemini client is configured.
func (s *Service) Summarize(ctx context.Context, userID string) (string, error) {
	if s.gemini == nil {
		s.logger.Debug().Str("user", userID).Msg("Summarize skipped, no Gemini client")
		return "", nil
	}

	view, err := s.View(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(view.Summaries) == 0 {
		return "", fmt.Errorf("no holdings to summarize")
	}

	prompt := buildSummaryPrompt(view)
	summary, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate portfolio summary: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// buildSummaryPrompt creates a prompt describing the aggregated portfolio.
func buildSummaryPrompt(view *models.PortfolioView) string {
	var sb strings.Builder

	sb.WriteString(`Summarize the following stock portfolio and provide:
1. A one-paragraph overview of composition and concentration
2. The strongest and weakest positions by unrealized performance
3. Notable realized gains or losses

Portfolio totals:
`)
	sb.WriteString(fmt.Sprintf("- Total Value: $%.2f\n", view.Stats.TotalValue))
	sb.WriteString(fmt.Sprintf("- Cost Basis: $%.2f\n", view.Stats.TotalCostBasis))
	sb.WriteString(fmt.Sprintf("- Realized P/L: $%.2f\n", view.Stats.TotalRealizedPL))
	sb.WriteString(fmt.Sprintf("- Unrealized P/L: $%.2f\n", view.Stats.TotalUnrealizedPL))

	sb.WriteString("\nHoldings:\n")
	for _, h := range view.Summaries {
		if h.TotalShares <= 0 {
			continue
		}
		line := fmt.Sprintf("- %s (%s): %.4f shares, avg cost $%.2f, invested $%.2f",
			h.Name, h.Symbol, h.TotalShares, h.AvgCost, h.TotalInvested)
		if h.CurrentPrice != nil {
			line += fmt.Sprintf(", current $%.2f, value $%.2f", *h.CurrentPrice, h.MarketValue())
		} else {
			line += ", current price unknown"
		}
		if h.RealizedPL != 0 {
			line += fmt.Sprintf(", realized $%.2f", h.RealizedPL)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\nKeep it concise and factual. Do not give investment advice.")

	return sb.String()
}
