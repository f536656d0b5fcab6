// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/foliohq/folio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	TransactionStore() TransactionStore
	PriceStore() PriceStore
	UserStore() UserStore
	FileStore() FileStore

	// Lifecycle
	Close() error
}

// TransactionStore persists a user's recorded trade transactions.
// Records are immutable: an edit is a Save with the same ID, which replaces
// the stored record wholesale.
type TransactionStore interface {
	List(ctx context.Context, userID string) ([]models.Transaction, error)
	Save(ctx context.Context, userID string, tx models.Transaction) error
	SaveBatch(ctx context.Context, userID string, txs []models.Transaction) error
	Delete(ctx context.Context, userID, txID string) error

	// Replace swaps the user's entire transaction list (bulk import).
	Replace(ctx context.Context, userID string, txs []models.Transaction) error
}

// PriceStore persists the current price snapshot per user. Absence of a
// symbol in the snapshot means its price is unknown.
type PriceStore interface {
	GetPrices(ctx context.Context, userID string) (models.PriceMap, error)
	SavePrices(ctx context.Context, userID string, prices models.PriceMap) error
}

// UserStore manages user accounts for the auth layer.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]string, error)
}

// FileStore provides binary file storage (rendered charts, uploaded
// documents awaiting import).
type FileStore interface {
	SaveFile(ctx context.Context, category, key string, data []byte, contentType string) error
	GetFile(ctx context.Context, category, key string) ([]byte, string, error) // data, contentType, error
	DeleteFile(ctx context.Context, category, key string) error
	HasFile(ctx context.Context, category, key string) (bool, error)
}
