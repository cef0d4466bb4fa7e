package domain

// WalletListEntry is one saved wallet inside a named list, carrying the
// correlation metadata it was saved with.
type WalletListEntry struct {
	Address    string
	Note       string
	AddedAt    int64 // unix seconds
	PnL        float64
	RiskScore  int
	BuyAmount  float64 // lamports
	SellAmount float64 // lamports
}

// WalletList is a durable named collection of scored wallet entries.
type WalletList struct {
	ListID    string // deterministic hash, see idhash
	Name      string
	CreatedAt int64 // unix seconds
	Wallets   []WalletListEntry
}

// WalletActivity is one observed live-activity row for a tracked wallet.
type WalletActivity struct {
	Wallet     string
	Signature  string
	Slot       int64
	ObservedAt int64 // unix seconds
}
