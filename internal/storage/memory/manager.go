// Package memory provides an in-process StorageManager for tests and dev mode.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// ErrNotFound is returned for lookups of absent records.
var ErrNotFound = errors.New("not found")

// Manager implements interfaces.StorageManager with in-process maps.
// Safe for concurrent use.
type Manager struct {
	transactions *TransactionStore
	prices       *PriceStore
	users        *UserStore
	files        *FileStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager() *Manager {
	return &Manager{
		transactions: &TransactionStore{byUser: make(map[string][]models.Transaction)},
		prices:       &PriceStore{byUser: make(map[string]models.PriceMap)},
		users:        &UserStore{byName: make(map[string]models.User)},
		files:        &FileStore{blobs: make(map[string]fileEntry)},
	}
}

func (m *Manager) TransactionStore() interfaces.TransactionStore { return m.transactions }
func (m *Manager) PriceStore() interfaces.PriceStore             { return m.prices }
func (m *Manager) UserStore() interfaces.UserStore               { return m.users }
func (m *Manager) FileStore() interfaces.FileStore               { return m.files }
func (m *Manager) Close() error                                  { return nil }

// TransactionStore keeps per-user transaction lists in input order.
type TransactionStore struct {
	mu     sync.RWMutex
	byUser map[string][]models.Transaction
}

func (s *TransactionStore) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction(nil), s.byUser[userID]...), nil
}

func (s *TransactionStore) Save(ctx context.Context, userID string, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byUser[userID]
	for i := range list {
		if list[i].ID == tx.ID {
			list[i] = tx
			return nil
		}
	}
	s.byUser[userID] = append(list, tx)
	return nil
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
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byUser[userID]
	for i := range list {
		if list[i].ID == txID {
			s.byUser[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *TransactionStore) Replace(ctx context.Context, userID string, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = append([]models.Transaction(nil), txs...)
	return nil
}

// PriceStore keeps per-user price snapshots.
type PriceStore struct {
	mu     sync.RWMutex
	byUser map[string]models.PriceMap
}

func (s *PriceStore) GetPrices(ctx context.Context, userID string) (models.PriceMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prices := make(models.PriceMap, len(s.byUser[userID]))
	for k, v := range s.byUser[userID] {
		prices[k] = v
	}
	return prices, nil
}

func (s *PriceStore) SavePrices(ctx context.Context, userID string, prices models.PriceMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(models.PriceMap, len(prices))
	for k, v := range prices {
		copied[k] = v
	}
	s.byUser[userID] = copied
	return nil
}

// UserStore keeps user accounts keyed by username.
type UserStore struct {
	mu     sync.RWMutex
	byName map[string]models.User
}

func (s *UserStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[user.Username] = *user
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byName, username)
	return nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	return names, nil
}

type fileEntry struct {
	data        []byte
	contentType string
}

// FileStore keeps binary blobs keyed by category/key.
type FileStore struct {
	mu    sync.RWMutex
	blobs map[string]fileEntry
}

func fileKey(category, key string) string {
	return category + "/" + key
}

func (s *FileStore) SaveFile(ctx context.Context, category, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[fileKey(category, key)] = fileEntry{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (s *FileStore) GetFile(ctx context.Context, category, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.blobs[fileKey(category, key)]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), entry.data...), entry.contentType, nil
}

func (s *FileStore) DeleteFile(ctx context.Context, category, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, fileKey(category, key))
	return nil
}

func (s *FileStore) HasFile(ctx context.Context, category, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[fileKey(category, key)]
	return ok, nil
}

// Ensure Manager satisfies the contract.
var _ interfaces.StorageManager = (*Manager)(nil)
