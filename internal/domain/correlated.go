package domain

// CorrelatedWallet is one wallet's cross-cohort aggregate, emitted by the
// correlation engine. A wallet appears at most once per correlation run.
type CorrelatedWallet struct {
	Wallet string

	// Mints holds the deduplicated token mints whose cohort filter this
	// wallet passed, in cohort processing order.
	Mints []string

	// TotalPnL is the sum of BuyerRecord.PnL across all matched cohorts.
	TotalPnL float64

	// Transactions concatenates all matched records' transactions:
	// cohort processing order, then per-cohort transaction order.
	Transactions []Transaction

	// RiskScore is the derived heuristic in [0,100].
	RiskScore int
}
