package surrealdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// transactionRecord wraps a transaction with its owning user for querying.
// Seq preserves original input order, which the aggregator's stable sort
// depends on for same-day ties.
type transactionRecord struct {
	UserID string             `json:"user_id"`
	Seq    int64              `json:"seq"`
	Tx     models.Transaction `json:"tx"`
}

type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

func txRecordID(userID, txID string) string {
	return userID + "_" + txID
}

func (s *TransactionStore) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	sql := "SELECT * FROM transaction WHERE user_id = $user_id ORDER BY seq ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]transactionRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []models.Transaction
	if results != nil && len(*results) > 0 {
		for _, rec := range (*results)[0].Result {
			txs = append(txs, rec.Tx)
		}
	}
	return txs, nil
}

func (s *TransactionStore) Save(ctx context.Context, userID string, tx models.Transaction) error {
	if tx.ID == "" {
		return errors.New("transaction ID is required")
	}

	// An edit keeps its place in input order; only new records get a fresh
	// sequence number.
	var seq int64
	existing, err := surrealdb.Select[transactionRecord](ctx, s.db, surrealmodels.NewRecordID("transaction", txRecordID(userID, tx.ID)))
	if err == nil && existing != nil && existing.Seq > 0 {
		seq = existing.Seq
	} else {
		seq, err = s.nextSeq(ctx, userID)
		if err != nil {
			return err
		}
	}

	record := transactionRecord{UserID: userID, Seq: seq, Tx: tx}
	sql := "UPSERT type::record('transaction', $id) CONTENT $record"
	vars := map[string]any{"id": txRecordID(userID, tx.ID), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if _, err := surrealdb.Query[[]transactionRecord](ctx, s.db, sql, vars); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("failed to save transaction after retries: %w", lastErr)
}

func (s *TransactionStore) SaveBatch(ctx context.Context, userID string, txs []models.Transaction) error {
	for _, tx := range txs {
		if err := s.Save(ctx, userID, tx); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, userID, txID string) error {
	_, err := surrealdb.Delete[transactionRecord](ctx, s.db, surrealmodels.NewRecordID("transaction", txRecordID(userID, txID)))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) Replace(ctx context.Context, userID string, txs []models.Transaction) error {
	sql := "DELETE transaction WHERE user_id = $user_id"
	if _, err := surrealdb.Query[[]transactionRecord](ctx, s.db, sql, map[string]any{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return s.SaveBatch(ctx, userID, txs)
}

// nextSeq returns the next input-order sequence number for the user.
func (s *TransactionStore) nextSeq(ctx context.Context, userID string) (int64, error) {
	sql := "SELECT * FROM transaction WHERE user_id = $user_id ORDER BY seq DESC LIMIT 1"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]transactionRecord](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction sequence: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Seq + 1, nil
	}
	return 1, nil
}
