package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type PriceStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPriceStore(db *surrealdb.DB, logger *common.Logger) *PriceStore {
	return &PriceStore{
		db:     db,
		logger: logger,
	}
}

func (s *PriceStore) GetPrices(ctx context.Context, userID string) (models.PriceMap, error) {
	snapshot, err := surrealdb.Select[models.PriceSnapshot](ctx, s.db, surrealmodels.NewRecordID("price_snapshot", userID))
	if err != nil {
		if isNotFoundError(err) {
			return models.PriceMap{}, nil
		}
		return nil, fmt.Errorf("failed to select price snapshot: %w", err)
	}
	if snapshot == nil || snapshot.Prices == nil {
		// No snapshot yet: every price is unknown.
		return models.PriceMap{}, nil
	}
	return snapshot.Prices, nil
}

func (s *PriceStore) SavePrices(ctx context.Context, userID string, prices models.PriceMap) error {
	snapshot := models.PriceSnapshot{
		UserID:  userID,
		Prices:  prices,
		Updated: time.Now().UTC().Format(time.RFC3339),
	}

	sql := "UPSERT type::record('price_snapshot', $id) CONTENT $snapshot"
	vars := map[string]any{"id": userID, "snapshot": snapshot}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if _, err := surrealdb.Query[[]models.PriceSnapshot](ctx, s.db, sql, vars); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("failed to save price snapshot after retries: %w", lastErr)
}
