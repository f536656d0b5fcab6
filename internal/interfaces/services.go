package interfaces

import (
	"context"

	"github.com/foliohq/folio/internal/models"
)

// PortfolioService exposes the accounting engine over stored data.
type PortfolioService interface {
	// View aggregates the user's transactions and price snapshot into
	// per-symbol summaries and portfolio stats.
	View(ctx context.Context, userID string) (*models.PortfolioView, error)

	// Transaction lifecycle (create and delete are explicit caller actions;
	// the aggregator itself never mutates the list).
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	AddTransaction(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, txID string) error

	// Price snapshot
	GetPrices(ctx context.Context, userID string) (models.PriceMap, error)
	SetPrices(ctx context.Context, userID string, prices models.PriceMap) error

	// RenderChart renders a value-vs-cost PNG chart for the portfolio.
	RenderChart(ctx context.Context, userID string) ([]byte, error)

	// Summarize produces an AI-written portfolio summary, or "" when no AI
	// client is configured.
	Summarize(ctx context.Context, userID string) (string, error)
}

// ImportService parses external input into validated transactions.
type ImportService interface {
	// ImportText parses free-form text (pasted broker statement, natural
	// language) into transactions.
	ImportText(ctx context.Context, userID, text string) (*models.ImportResult, error)

	// ImportDocument extracts text from an uploaded PDF document and parses
	// it into transactions.
	ImportDocument(ctx context.Context, userID string, pdfData []byte) (*models.ImportResult, error)
}
