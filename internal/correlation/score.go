package correlation

import (
	"sort"

	"solana-wallet-lab/internal/domain"
)

// Risk score weights and thresholds.
const (
	tokenOverlapWeight = 10    // per matched token
	clusterBonus       = 20    // tight transaction-timing clustering
	profitBonus        = 30    // large accumulated profit
	maxRiskScore       = 100   // score ceiling
	clusterGapSeconds  = 300   // avg gap under 5 minutes counts as clustered
	profitThreshold    = 10000 // accumulated PnL above this counts as large
)

// ComputeRiskScore derives a bounded heuristic risk score in [0,100] from
// token-overlap breadth, transaction-timing clustering and profit
// magnitude. Pure function of the wallet's accumulated state; the input is
// never mutated.
func ComputeRiskScore(w *domain.CorrelatedWallet) int {
	score := tokenOverlapWeight * len(w.Mints)

	// The timing term needs at least two transactions to define a gap;
	// with fewer it simply does not apply.
	if len(w.Transactions) >= 2 {
		timestamps := make([]int64, len(w.Transactions))
		for i, tx := range w.Transactions {
			timestamps[i] = tx.Timestamp
		}
		sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

		var gapSum int64
		for i := 1; i < len(timestamps); i++ {
			gapSum += timestamps[i] - timestamps[i-1]
		}
		avgGap := float64(gapSum) / float64(len(timestamps)-1)
		if avgGap < clusterGapSeconds {
			score += clusterBonus
		}
	}

	if w.TotalPnL > profitThreshold {
		score += profitBonus
	}

	if score > maxRiskScore {
		score = maxRiskScore
	}
	return score
}
