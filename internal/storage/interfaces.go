// Package storage defines the persistence interfaces and their shared
// error vocabulary. Implementations live in the memory, postgres and
// clickhouse subpackages.
package storage

import (
	"context"

	"solana-wallet-lab/internal/domain"
)

// WalletListStore provides access to persisted wallet lists.
type WalletListStore interface {
	// Insert adds a new list. Returns ErrDuplicateKey if list_id exists.
	Insert(ctx context.Context, list *domain.WalletList) error

	// GetByID retrieves a list with its entries. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, listID string) (*domain.WalletList, error)

	// GetAll retrieves all lists with their entries, ordered by created_at ASC.
	GetAll(ctx context.Context) ([]*domain.WalletList, error)

	// Rename changes a list's name. Returns ErrNotFound if not exists.
	Rename(ctx context.Context, listID, name string) error

	// Delete removes a list and its entries. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, listID string) error

	// AppendWallets adds entries to a list, skipping addresses already
	// present, and returns how many were newly added.
	// Returns ErrNotFound if the list does not exist.
	AppendWallets(ctx context.Context, listID string, entries []domain.WalletListEntry) (int, error)

	// RemoveWallet deletes one entry from a list. Returns ErrNotFound if
	// the list or the address is not present.
	RemoveWallet(ctx context.Context, listID, address string) error
}

// ActivityArchiveStore provides access to the wallet activity archive.
type ActivityArchiveStore interface {
	// InsertBulk appends activity rows. The archive is append-only and
	// tolerates duplicate signatures.
	InsertBulk(ctx context.Context, rows []*domain.WalletActivity) error

	// GetByWallet retrieves the most recent rows for a wallet, ordered by
	// observed_at DESC. A limit <= 0 means no limit.
	GetByWallet(ctx context.Context, wallet string, limit int) ([]*domain.WalletActivity, error)
}
