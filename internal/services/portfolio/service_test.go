package portfolio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/models"
	"github.com/foliohq/folio/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()
	store := memory.NewManager()
	svc := NewService(store, nil, common.NewSilentLogger())
	return svc, store
}

func TestAddTransaction_MintsIDAndNormalizes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "alice", models.Transaction{
		Date:   "2024-01-15T00:00:00",
		Type:   "buy",
		Symbol: " aapl ",
		Name:   " Apple Inc ",
		Shares: 10,
		Price:  185.5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, models.TradeTypeBuy, tx.Type)
	assert.Equal(t, "AAPL", tx.Symbol)
	assert.Equal(t, "Apple Inc", tx.Name)
	assert.Equal(t, "2024-01-15", tx.Date)

	list, err := svc.ListTransactions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)
}

func TestAddTransaction_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		tx   models.Transaction
	}{
		{"bad type", models.Transaction{Date: "2024-01-01", Type: "DIVIDEND", Symbol: "A", Shares: 1, Price: 1}},
		{"empty symbol", models.Transaction{Date: "2024-01-01", Type: "BUY", Symbol: "  ", Shares: 1, Price: 1}},
		{"empty date", models.Transaction{Type: "BUY", Symbol: "A", Shares: 1, Price: 1}},
		{"zero shares", models.Transaction{Date: "2024-01-01", Type: "BUY", Symbol: "A", Shares: 0, Price: 1}},
		{"negative price", models.Transaction{Date: "2024-01-01", Type: "BUY", Symbol: "A", Shares: 1, Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTransaction(ctx, "alice", tt.tx)
			assert.Error(t, err)
		})
	}

	list, err := svc.ListTransactions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteTransaction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "alice", models.Transaction{
		Date: "2024-01-01", Type: "BUY", Symbol: "BHP", Shares: 10, Price: 40,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, "alice", tx.ID))

	list, err := svc.ListTransactions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Error(t, svc.DeleteTransaction(ctx, "alice", ""))
}

func TestView_AggregatesStoredData(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []models.Transaction{
		{Date: "2024-01-01", Type: "BUY", Symbol: "AAPL", Name: "Apple Inc", Shares: 50, Price: 100},
		{Date: "2024-02-01", Type: "BUY", Symbol: "AAPL", Name: "Apple Inc", Shares: 50, Price: 120},
		{Date: "2024-03-01", Type: "SELL", Symbol: "AAPL", Name: "Apple Inc", Shares: 60, Price: 150},
	}
	for _, tx := range seed {
		_, err := svc.AddTransaction(ctx, "alice", tx)
		require.NoError(t, err)
	}
	require.NoError(t, svc.SetPrices(ctx, "alice", models.PriceMap{"AAPL": 160}))

	view, err := svc.View(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, view.Summaries, 1)

	h := view.Summaries[0]
	assert.Equal(t, "AAPL", h.Symbol)
	assert.InDelta(t, 40, h.TotalShares, 1e-9)
	assert.InDelta(t, 110, h.AvgCost, 1e-9)
	assert.InDelta(t, 4400, h.TotalInvested, 1e-9)
	assert.InDelta(t, 2400, h.RealizedPL, 1e-9)

	assert.InDelta(t, 6400, view.Stats.TotalValue, 1e-9)
	assert.InDelta(t, 2000, view.Stats.TotalUnrealizedPL, 1e-9)
	assert.InDelta(t, 2400, view.Stats.TotalRealizedPL, 1e-9)
}

func TestView_EmptyPortfolio(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.View(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, view.Summaries)
	assert.Zero(t, view.Stats.TotalValue)
}

func TestSetPrices_CanonicalizesAndValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPrices(ctx, "alice", models.PriceMap{" aapl ": 160.5, "bhp": 45.2}))

	prices, err := svc.GetPrices(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.PriceMap{"AAPL": 160.5, "BHP": 45.2}, prices)

	assert.Error(t, svc.SetPrices(ctx, "alice", models.PriceMap{"AAPL": -1}))
}

func TestOversold(t *testing.T) {
	buys := []models.Transaction{
		{Type: models.TradeTypeBuy, Shares: 10},
		{Type: models.TradeTypeSell, Shares: 15},
	}
	assert.True(t, oversold(buys))

	balanced := []models.Transaction{
		{Type: models.TradeTypeBuy, Shares: 10},
		{Type: models.TradeTypeSell, Shares: 10},
	}
	assert.False(t, oversold(balanced))
}

func TestRenderChart(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, "alice", models.Transaction{
		Date: "2024-01-01", Type: "BUY", Symbol: "AAPL", Name: "Apple Inc", Shares: 10, Price: 100,
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetPrices(ctx, "alice", models.PriceMap{"AAPL": 120}))

	png, err := svc.RenderChart(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, png[:4])

	// Rendered chart is cached in the file store.
	cached, contentType, err := store.FileStore().GetFile(ctx, "chart", "alice.png")
	require.NoError(t, err)
	assert.Equal(t, png, cached)
	assert.Equal(t, "image/png", contentType)
}

func TestRenderChart_NoPriceSnapshot(t *testing.T) {
	// With no prices the value bar falls back to cost basis, so every bar
	// shares one value; the chart must still render rather than reject the
	// flat range.
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, "alice", models.Transaction{
		Date: "2024-01-01", Type: "BUY", Symbol: "AAPL", Name: "Apple Inc", Shares: 10, Price: 100,
	})
	require.NoError(t, err)

	png, err := svc.RenderChart(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, png[:4])
}

func TestRenderChart_NoHoldings(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RenderChart(context.Background(), "alice")
	assert.Error(t, err)
}

func TestSummarize_NoClientReturnsEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	summary, err := svc.Summarize(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, summary)
}

type cannedGemini struct {
	response string
	prompt   string
}

func (c *cannedGemini) GenerateContent(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.response, nil
}

func (c *cannedGemini) Close() error { return nil }

func TestSummarize_BuildsPromptFromHoldings(t *testing.T) {
	store := memory.NewManager()
	gemini := &cannedGemini{response: "  A concentrated single-stock portfolio.  "}
	svc := NewService(store, gemini, common.NewSilentLogger())
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, "alice", models.Transaction{
		Date: "2024-01-01", Type: "BUY", Symbol: "AAPL", Name: "Apple Inc", Shares: 10, Price: 100,
	})
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "A concentrated single-stock portfolio.", summary)

	assert.True(t, strings.Contains(gemini.prompt, "Apple Inc"))
	assert.True(t, strings.Contains(gemini.prompt, "AAPL"))
}
