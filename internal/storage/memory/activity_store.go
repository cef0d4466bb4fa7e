package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// ActivityArchiveStore is an in-memory implementation of
// storage.ActivityArchiveStore.
type ActivityArchiveStore struct {
	mu       sync.RWMutex
	byWallet map[string][]domain.WalletActivity
}

// NewActivityArchiveStore creates a new in-memory activity archive.
func NewActivityArchiveStore() *ActivityArchiveStore {
	return &ActivityArchiveStore{
		byWallet: make(map[string][]domain.WalletActivity),
	}
}

// Compile-time interface check.
var _ storage.ActivityArchiveStore = (*ActivityArchiveStore)(nil)

// InsertBulk appends activity rows.
func (s *ActivityArchiveStore) InsertBulk(_ context.Context, rows []*domain.WalletActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if row == nil || row.Wallet == "" {
			return storage.ErrInvalidInput
		}
		s.byWallet[row.Wallet] = append(s.byWallet[row.Wallet], *row)
	}
	return nil
}

// GetByWallet retrieves the most recent rows for a wallet, ordered by
// observed_at DESC.
func (s *ActivityArchiveStore) GetByWallet(_ context.Context, wallet string, limit int) ([]*domain.WalletActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.byWallet[wallet]
	out := make([]*domain.WalletActivity, len(rows))
	for i := range rows {
		rowCopy := rows[i]
		out[i] = &rowCopy
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ObservedAt > out[j].ObservedAt })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
