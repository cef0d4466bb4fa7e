package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// WalletListStore implements storage.WalletListStore using PostgreSQL.
type WalletListStore struct {
	pool *Pool
}

// NewWalletListStore creates a new WalletListStore.
func NewWalletListStore(pool *Pool) *WalletListStore {
	return &WalletListStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletListStore = (*WalletListStore)(nil)

// Insert adds a new list. Returns ErrDuplicateKey if list_id exists.
func (s *WalletListStore) Insert(ctx context.Context, list *domain.WalletList) error {
	if list == nil || list.ListID == "" || list.Name == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert list: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_lists (list_id, name, created_at)
		VALUES ($1, $2, $3)
	`, list.ListID, list.Name, list.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet list: %w", err)
	}

	for _, e := range list.Wallets {
		if err := insertEntry(ctx, tx, list.ListID, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert list: %w", err)
	}
	return nil
}

// GetByID retrieves a list with its entries. Returns ErrNotFound if not exists.
func (s *WalletListStore) GetByID(ctx context.Context, listID string) (*domain.WalletList, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT list_id, name, created_at
		FROM wallet_lists
		WHERE list_id = $1
	`, listID)

	var list domain.WalletList
	if err := row.Scan(&list.ListID, &list.Name, &list.CreatedAt); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet list by id: %w", err)
	}

	entries, err := s.entriesByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	list.Wallets = entries
	return &list, nil
}

// GetAll retrieves all lists with their entries, ordered by created_at ASC.
func (s *WalletListStore) GetAll(ctx context.Context) ([]*domain.WalletList, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT list_id, name, created_at
		FROM wallet_lists
		ORDER BY created_at ASC, list_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query wallet lists: %w", err)
	}
	defer rows.Close()

	var lists []*domain.WalletList
	for rows.Next() {
		var list domain.WalletList
		if err := rows.Scan(&list.ListID, &list.Name, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet list row: %w", err)
		}
		lists = append(lists, &list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet list rows: %w", err)
	}

	for _, list := range lists {
		entries, err := s.entriesByList(ctx, list.ListID)
		if err != nil {
			return nil, err
		}
		list.Wallets = entries
	}
	return lists, nil
}

// Rename changes a list's name. Returns ErrNotFound if not exists.
func (s *WalletListStore) Rename(ctx context.Context, listID, name string) error {
	if name == "" {
		return storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE wallet_lists SET name = $2 WHERE list_id = $1
	`, listID, name)
	if err != nil {
		return fmt.Errorf("rename wallet list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a list; entries cascade.
func (s *WalletListStore) Delete(ctx context.Context, listID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM wallet_lists WHERE list_id = $1
	`, listID)
	if err != nil {
		return fmt.Errorf("delete wallet list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendWallets adds entries to a list, skipping addresses already present,
// and returns how many were newly added.
func (s *WalletListStore) AppendWallets(ctx context.Context, listID string, entries []domain.WalletListEntry) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin append wallets: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM wallet_lists WHERE list_id = $1)
	`, listID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check list exists: %w", err)
	}
	if !exists {
		return 0, storage.ErrNotFound
	}

	added := 0
	for _, e := range entries {
		if e.Address == "" {
			return 0, storage.ErrInvalidInput
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO wallet_list_entries (
				list_id, address, note, added_at, pnl, risk_score, buy_amount, sell_amount
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (list_id, address) DO NOTHING
		`, listID, e.Address, e.Note, e.AddedAt, e.PnL, e.RiskScore, e.BuyAmount, e.SellAmount)
		if err != nil {
			return 0, fmt.Errorf("append wallet %s: %w", e.Address, err)
		}
		added += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit append wallets: %w", err)
	}
	return added, nil
}

// RemoveWallet deletes one entry from a list.
func (s *WalletListStore) RemoveWallet(ctx context.Context, listID, address string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM wallet_list_entries WHERE list_id = $1 AND address = $2
	`, listID, address)
	if err != nil {
		return fmt.Errorf("remove wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// entriesByList loads a list's entries in insertion order.
func (s *WalletListStore) entriesByList(ctx context.Context, listID string) ([]domain.WalletListEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT address, note, added_at, pnl, risk_score, buy_amount, sell_amount
		FROM wallet_list_entries
		WHERE list_id = $1
		ORDER BY added_at ASC, address ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("query list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.WalletListEntry
	for rows.Next() {
		var e domain.WalletListEntry
		err := rows.Scan(&e.Address, &e.Note, &e.AddedAt, &e.PnL, &e.RiskScore, &e.BuyAmount, &e.SellAmount)
		if err != nil {
			return nil, fmt.Errorf("scan list entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list entry rows: %w", err)
	}
	return entries, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, listID string, e domain.WalletListEntry) error {
	if e.Address == "" {
		return storage.ErrInvalidInput
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO wallet_list_entries (
			list_id, address, note, added_at, pnl, risk_score, buy_amount, sell_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (list_id, address) DO NOTHING
	`, listID, e.Address, e.Note, e.AddedAt, e.PnL, e.RiskScore, e.BuyAmount, e.SellAmount)
	if err != nil {
		return fmt.Errorf("insert list entry %s: %w", e.Address, err)
	}
	return nil
}
