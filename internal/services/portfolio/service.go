// Package portfolio provides the storage-backed portfolio service.
package portfolio

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/foliohq/folio/internal/accounting"
	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	gemini  interfaces.GeminiClient
	logger  *common.Logger
}

// NewService creates a new portfolio service. The gemini client may be nil,
// in which case Summarize reports that AI is not configured.
func NewService(
	storage interfaces.StorageManager,
	gemini interfaces.GeminiClient,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		storage: storage,
		gemini:  gemini,
		logger:  logger,
	}
}

// View aggregates the user's transactions and price snapshot into per-symbol
// summaries and portfolio stats.
func (s *Service) View(ctx context.Context, userID string) (*models.PortfolioView, error) {
	transactions, err := s.storage.TransactionStore().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	prices, err := s.storage.PriceStore().GetPrices(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	summaries, stats := accounting.Aggregate(transactions, prices)

	for _, summary := range summaries {
		if oversold(summary.Transactions) {
			s.logger.Warn().
				Str("user", userID).
				Str("symbol", summary.Symbol).
				Msg("Sell transactions exceed recorded buys, position clamped to zero")
		}
	}

	return &models.PortfolioView{
		Summaries: summaries,
		Stats:     stats,
	}, nil
}

// oversold reports whether a symbol's sells outnumber its buys by more than
// floating-point residue.
func oversold(txs []models.Transaction) bool {
	var net float64
	for _, tx := range txs {
		if math.IsNaN(tx.Shares) || math.IsInf(tx.Shares, 0) {
			continue
		}
		switch tx.Type {
		case models.TradeTypeBuy:
			net += tx.Shares
		case models.TradeTypeSell:
			net -= tx.Shares
		}
	}
	return net < -1e-6
}

// ListTransactions returns the user's transactions in input order.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.storage.TransactionStore().List(ctx, userID)
}

// AddTransaction validates and stores a single transaction, minting an ID if
// the caller did not supply one.
func (s *Service) AddTransaction(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error) {
	tradeType, ok := models.NormalizeTradeType(string(tx.Type))
	if !ok {
		return models.Transaction{}, fmt.Errorf("invalid trade type: %q", tx.Type)
	}
	tx.Type = tradeType

	tx.Symbol = models.CanonicalSymbol(tx.Symbol)
	if tx.Symbol == "" {
		return models.Transaction{}, fmt.Errorf("symbol is required")
	}

	tx.Date = models.NormalizeDate(tx.Date)
	if tx.Date == "" {
		return models.Transaction{}, fmt.Errorf("date is required")
	}

	if math.IsNaN(tx.Shares) || math.IsInf(tx.Shares, 0) || tx.Shares <= 0 {
		return models.Transaction{}, fmt.Errorf("shares must be a positive number")
	}
	if math.IsNaN(tx.Price) || math.IsInf(tx.Price, 0) || tx.Price < 0 {
		return models.Transaction{}, fmt.Errorf("price must be a non-negative number")
	}

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	tx.Name = strings.TrimSpace(tx.Name)

	if err := s.storage.TransactionStore().Save(ctx, userID, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("symbol", tx.Symbol).
		Str("type", string(tx.Type)).
		Float64("shares", tx.Shares).
		Msg("Transaction added")

	return tx, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *Service) DeleteTransaction(ctx context.Context, userID, txID string) error {
	if txID == "" {
		return fmt.Errorf("transaction id is required")
	}
	return s.storage.TransactionStore().Delete(ctx, userID, txID)
}

// GetPrices returns the user's current price snapshot.
func (s *Service) GetPrices(ctx context.Context, userID string) (models.PriceMap, error) {
	return s.storage.PriceStore().GetPrices(ctx, userID)
}

// SetPrices replaces the user's price snapshot. Symbols are canonicalized and
// non-finite prices rejected before the write.
func (s *Service) SetPrices(ctx context.Context, userID string, prices models.PriceMap) error {
	cleaned := make(models.PriceMap, len(prices))
	for symbol, price := range prices {
		key := models.CanonicalSymbol(symbol)
		if key == "" {
			continue
		}
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return fmt.Errorf("invalid price for %s: %v", key, price)
		}
		cleaned[key] = price
	}

	if err := s.storage.PriceStore().SavePrices(ctx, userID, cleaned); err != nil {
		return fmt.Errorf("failed to save prices: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Int("symbols", len(cleaned)).
		Msg("Price snapshot updated")

	return nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
