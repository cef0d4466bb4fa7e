package correlation

import "solana-wallet-lab/internal/domain"

// matchesFilter reports whether a buyer record satisfies a cohort filter.
// Absent predicates always pass; an empty filter is the identity.
func matchesFilter(r *domain.BuyerRecord, f domain.CohortFilter) bool {
	if f.MinBuyAmount > 0 && r.BuyAmount < f.MinBuyAmount {
		return false
	}
	if f.BeforeTime > 0 && r.BuyTime > f.BeforeTime {
		return false
	}

	// The PnL predicate applies only when direction and threshold are both
	// present. An unrecognized direction filters nothing.
	if f.PnLCondition != "" && f.MinPnL != nil {
		switch f.PnLCondition {
		case domain.PnLGreater:
			if r.PnL <= *f.MinPnL {
				return false
			}
		case domain.PnLLess:
			if r.PnL >= *f.MinPnL {
				return false
			}
		}
	}

	return true
}
