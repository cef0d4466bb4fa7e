// Package memory provides in-memory store implementations for tests and
// single-process runs without external databases.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// WalletListStore is an in-memory implementation of storage.WalletListStore.
type WalletListStore struct {
	mu    sync.RWMutex
	lists map[string]*domain.WalletList // keyed by list_id
}

// NewWalletListStore creates a new in-memory wallet list store.
func NewWalletListStore() *WalletListStore {
	return &WalletListStore{
		lists: make(map[string]*domain.WalletList),
	}
}

// Compile-time interface check.
var _ storage.WalletListStore = (*WalletListStore)(nil)

// Insert adds a new list. Returns ErrDuplicateKey if list_id exists.
func (s *WalletListStore) Insert(_ context.Context, list *domain.WalletList) error {
	if list == nil || list.ListID == "" || list.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[list.ListID]; exists {
		return storage.ErrDuplicateKey
	}

	s.lists[list.ListID] = copyList(list)
	return nil
}

// GetByID retrieves a list with its entries. Returns ErrNotFound if not exists.
func (s *WalletListStore) GetByID(_ context.Context, listID string) (*domain.WalletList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, exists := s.lists[listID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyList(list), nil
}

// GetAll retrieves all lists with their entries, ordered by created_at ASC.
func (s *WalletListStore) GetAll(_ context.Context) ([]*domain.WalletList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.WalletList, 0, len(s.lists))
	for _, list := range s.lists {
		out = append(out, copyList(list))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ListID < out[j].ListID
	})
	return out, nil
}

// Rename changes a list's name. Returns ErrNotFound if not exists.
func (s *WalletListStore) Rename(_ context.Context, listID, name string) error {
	if name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[listID]
	if !exists {
		return storage.ErrNotFound
	}
	list.Name = name
	return nil
}

// Delete removes a list and its entries. Returns ErrNotFound if not exists.
func (s *WalletListStore) Delete(_ context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[listID]; !exists {
		return storage.ErrNotFound
	}
	delete(s.lists, listID)
	return nil
}

// AppendWallets adds entries to a list, skipping addresses already present,
// and returns how many were newly added. The batch is all-or-nothing: an
// invalid entry leaves the list untouched, matching the transactional
// postgres implementation.
func (s *WalletListStore) AppendWallets(_ context.Context, listID string, entries []domain.WalletListEntry) (int, error) {
	for _, e := range entries {
		if e.Address == "" {
			return 0, storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[listID]
	if !exists {
		return 0, storage.ErrNotFound
	}

	present := make(map[string]struct{}, len(list.Wallets))
	for _, e := range list.Wallets {
		present[e.Address] = struct{}{}
	}

	added := 0
	for _, e := range entries {
		if _, dup := present[e.Address]; dup {
			continue
		}
		present[e.Address] = struct{}{}
		list.Wallets = append(list.Wallets, e)
		added++
	}
	return added, nil
}

// RemoveWallet deletes one entry from a list. Returns ErrNotFound if the
// list or the address is not present.
func (s *WalletListStore) RemoveWallet(_ context.Context, listID, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[listID]
	if !exists {
		return storage.ErrNotFound
	}

	for i, e := range list.Wallets {
		if e.Address == address {
			list.Wallets = append(list.Wallets[:i], list.Wallets[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// copyList deep-copies a list so callers cannot mutate stored state.
func copyList(list *domain.WalletList) *domain.WalletList {
	listCopy := *list
	listCopy.Wallets = make([]domain.WalletListEntry, len(list.Wallets))
	copy(listCopy.Wallets, list.Wallets)
	return &listCopy
}
