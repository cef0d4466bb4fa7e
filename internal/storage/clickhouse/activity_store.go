package clickhouse

import (
	"context"
	"fmt"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// ActivityArchiveStore implements storage.ActivityArchiveStore using
// ClickHouse. The archive is append-only; MergeTree does not enforce
// uniqueness and duplicate signatures are acceptable.
type ActivityArchiveStore struct {
	conn *Conn
}

// NewActivityArchiveStore creates a new ActivityArchiveStore.
func NewActivityArchiveStore(conn *Conn) *ActivityArchiveStore {
	return &ActivityArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ActivityArchiveStore = (*ActivityArchiveStore)(nil)

// InsertBulk appends activity rows.
func (s *ActivityArchiveStore) InsertBulk(ctx context.Context, rows []*domain.WalletActivity) error {
	if len(rows) == 0 {
		return nil
	}

	for _, r := range rows {
		if r == nil || r.Wallet == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_activity (
			wallet, signature, slot, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(r.Wallet, r.Signature, uint64(r.Slot), uint64(r.ObservedAt))
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByWallet retrieves the most recent rows for a wallet, ordered by
// observed_at DESC.
func (s *ActivityArchiveStore) GetByWallet(ctx context.Context, wallet string, limit int) ([]*domain.WalletActivity, error) {
	query := `
		SELECT wallet, signature, slot, observed_at
		FROM wallet_activity
		WHERE wallet = ?
		ORDER BY observed_at DESC
	`
	args := []interface{}{wallet}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query by wallet: %w", err)
	}
	defer rows.Close()

	return scanActivity(rows)
}

// chRows abstracts driver.Rows for scan helpers.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanActivity scans multiple rows.
func scanActivity(rows chRows) ([]*domain.WalletActivity, error) {
	var out []*domain.WalletActivity

	for rows.Next() {
		var a domain.WalletActivity
		var slot, observedAt uint64

		if err := rows.Scan(&a.Wallet, &a.Signature, &slot, &observedAt); err != nil {
			return nil, fmt.Errorf("scan wallet activity row: %w", err)
		}

		a.Slot = int64(slot)
		a.ObservedAt = int64(observedAt)
		out = append(out, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet activity rows: %w", err)
	}

	return out, nil
}
