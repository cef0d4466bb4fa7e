package memory

import (
	"context"
	"errors"
	"testing"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

func testList(id, name string, createdAt int64) *domain.WalletList {
	return &domain.WalletList{ListID: id, Name: name, CreatedAt: createdAt}
}

func entry(address string) domain.WalletListEntry {
	return domain.WalletListEntry{Address: address, AddedAt: 1000, PnL: 50, RiskScore: 20}
}

func TestWalletListStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()

	list := testList("id1", "alpha", 100)
	list.Wallets = []domain.WalletListEntry{entry("w1")}

	if err := store.Insert(ctx, list); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "id1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "alpha" || len(got.Wallets) != 1 || got.Wallets[0].Address != "w1" {
		t.Errorf("got %+v", got)
	}

	// Stored state must be isolated from caller mutation.
	got.Wallets[0].Address = "mutated"
	again, _ := store.GetByID(ctx, "id1")
	if again.Wallets[0].Address != "w1" {
		t.Error("store state mutated through returned copy")
	}
}

func TestWalletListStore_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()

	if err := store.Insert(ctx, testList("id1", "a", 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, testList("id1", "b", 2)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestWalletListStore_InsertInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil list: err = %v, want ErrInvalidInput", err)
	}
	if err := store.Insert(ctx, testList("", "a", 1)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty id: err = %v, want ErrInvalidInput", err)
	}
	if err := store.Insert(ctx, testList("id", "", 1)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty name: err = %v, want ErrInvalidInput", err)
	}
}

func TestWalletListStore_GetAll_OrderedByCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()

	_ = store.Insert(ctx, testList("late", "c", 300))
	_ = store.Insert(ctx, testList("early", "a", 100))
	_ = store.Insert(ctx, testList("mid", "b", 200))

	lists, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(lists) != 3 {
		t.Fatalf("got %d lists, want 3", len(lists))
	}
	want := []string{"early", "mid", "late"}
	for i, w := range want {
		if lists[i].ListID != w {
			t.Errorf("lists[%d] = %s, want %s", i, lists[i].ListID, w)
		}
	}
}

func TestWalletListStore_Rename(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()
	_ = store.Insert(ctx, testList("id1", "old", 1))

	if err := store.Rename(ctx, "id1", "new"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, _ := store.GetByID(ctx, "id1")
	if got.Name != "new" {
		t.Errorf("Name = %q, want new", got.Name)
	}

	if err := store.Rename(ctx, "missing", "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := store.Rename(ctx, "id1", ""); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestWalletListStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()
	_ = store.Insert(ctx, testList("id1", "a", 1))

	if err := store.Delete(ctx, "id1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, "id1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
	if err := store.Delete(ctx, "id1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestWalletListStore_AppendWallets(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()
	list := testList("id1", "a", 1)
	list.Wallets = []domain.WalletListEntry{entry("existing")}
	_ = store.Insert(ctx, list)

	added, err := store.AppendWallets(ctx, "id1", []domain.WalletListEntry{
		entry("existing"), // duplicate, skipped
		entry("new1"),
		entry("new2"),
		entry("new1"), // intra-batch duplicate, skipped
	})
	if err != nil {
		t.Fatalf("AppendWallets failed: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	got, _ := store.GetByID(ctx, "id1")
	if len(got.Wallets) != 3 {
		t.Errorf("wallet count = %d, want 3", len(got.Wallets))
	}
}

func TestWalletListStore_AppendWallets_InvalidEntryLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()
	list := testList("id1", "a", 1)
	list.Wallets = []domain.WalletListEntry{entry("existing")}
	_ = store.Insert(ctx, list)

	// The empty address sits behind a valid entry; the whole batch must be
	// rejected without mutating the list.
	added, err := store.AppendWallets(ctx, "id1", []domain.WalletListEntry{
		entry("new1"),
		entry(""),
		entry("new2"),
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}

	got, _ := store.GetByID(ctx, "id1")
	if len(got.Wallets) != 1 || got.Wallets[0].Address != "existing" {
		t.Errorf("list mutated on failed append: %+v", got.Wallets)
	}
}

func TestWalletListStore_AppendWallets_MissingList(t *testing.T) {
	store := NewWalletListStore()
	_, err := store.AppendWallets(context.Background(), "missing", []domain.WalletListEntry{entry("w")})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWalletListStore_RemoveWallet(t *testing.T) {
	ctx := context.Background()
	store := NewWalletListStore()
	list := testList("id1", "a", 1)
	list.Wallets = []domain.WalletListEntry{entry("w1"), entry("w2")}
	_ = store.Insert(ctx, list)

	if err := store.RemoveWallet(ctx, "id1", "w1"); err != nil {
		t.Fatalf("RemoveWallet failed: %v", err)
	}
	got, _ := store.GetByID(ctx, "id1")
	if len(got.Wallets) != 1 || got.Wallets[0].Address != "w2" {
		t.Errorf("wallets = %+v", got.Wallets)
	}

	if err := store.RemoveWallet(ctx, "id1", "w1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for removed address", err)
	}
	if err := store.RemoveWallet(ctx, "missing", "w2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for missing list", err)
	}
}
