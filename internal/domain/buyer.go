package domain

// BuyerRecord aggregates one wallet's activity in a single token cohort.
// Produced once per cohort fetch; immutable within a correlation run.
// Missing numeric fields default to 0, missing collections to empty.
type BuyerRecord struct {
	Wallet     string  // wallet address (opaque string identifier)
	BuyAmount  float64 // total SOL spent buying, lamports
	BuyTime    int64   // first buy timestamp, unix seconds (0 = no buys)
	SellAmount float64 // total SOL received selling, lamports
	SellTime   int64   // last sell timestamp, unix seconds (0 = no sells)
	PnL        float64 // realized PnL, weighted-average cost basis

	// Transactions are kept in discovery order, not necessarily chronological.
	Transactions []Transaction
}
