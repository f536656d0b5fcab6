package portfolio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/foliohq/folio/internal/models"
)

// RenderChart renders a PNG bar chart of market value versus cost basis for
// each held position. The rendered image is cached in the file store so the
// HTTP layer can serve it again without re-rendering.
func (s *Service) RenderChart(ctx context.Context, userID string) ([]byte, error) {
	view, err := s.View(ctx, userID)
	if err != nil {
		return nil, err
	}

	png, err := renderHoldingsChart(view.Summaries)
	if err != nil {
		return nil, err
	}

	if err := s.storage.FileStore().SaveFile(ctx, "chart", userID+".png", png, "image/png"); err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Failed to cache chart")
	}

	return png, nil
}

// renderHoldingsChart renders paired bars per symbol: market value (blue,
// falling back to cost basis when the price is unknown) next to cost basis
// (gray).
func renderHoldingsChart(summaries []models.StockSummary) ([]byte, error) {
	valueColor := drawing.ColorFromHex("2563eb") // blue-600
	costColor := drawing.ColorFromHex("9ca3af")  // gray-400

	var bars []chart.Value
	var maxValue float64
	for _, s := range summaries {
		if s.TotalShares <= 0 {
			continue
		}
		if v := s.MarketValue(); v > maxValue {
			maxValue = v
		}
		if s.TotalInvested > maxValue {
			maxValue = s.TotalInvested
		}
		bars = append(bars,
			chart.Value{
				Label: s.Symbol,
				Value: s.MarketValue(),
				Style: chart.Style{FillColor: valueColor, StrokeColor: valueColor},
			},
			chart.Value{
				Label: "",
				Value: s.TotalInvested,
				Style: chart.Style{FillColor: costColor, StrokeColor: costColor},
			},
		)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no held positions to chart")
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	graph := chart.BarChart{
		Title:  "Holdings: Value vs Cost",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 40,
		YAxis: chart.YAxis{
			// When every bar lands on the same value (e.g. no price
			// snapshot, so value equals cost), go-chart rejects the
			// degenerate auto range. Anchor at zero with headroom.
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
