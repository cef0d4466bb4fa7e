package domain

// PnLCondition is the direction of a PnL filter threshold.
type PnLCondition string

// PnL filter directions.
const (
	PnLGreater PnLCondition = "gt"
	PnLLess    PnLCondition = "lt"
)

// CohortFilter restricts which buyer records count toward a cohort.
// Zero values mean "predicate absent, always passes". MinPnL is a pointer
// so that a zero threshold still counts as present; the PnL predicate
// applies only when both PnLCondition and MinPnL are set.
type CohortFilter struct {
	MinBuyAmount float64      // record.BuyAmount >= MinBuyAmount
	BeforeTime   int64        // record.BuyTime <= BeforeTime, unix seconds, inclusive
	PnLCondition PnLCondition // "gt" | "lt" | "" (absent)
	MinPnL       *float64     // threshold for PnLCondition, nil = absent
}

// CohortConfig is one input unit to the correlation engine: a token mint
// plus the filter applied to its buyer cohort.
type CohortConfig struct {
	Mint   string
	Filter CohortFilter
}

// MatchPolicy selects which wallets survive cross-referencing.
type MatchPolicy string

// Match policies.
const (
	// MatchAll keeps wallets that bought every requested token.
	MatchAll MatchPolicy = "ALL"
	// MatchAny keeps wallets that bought at least one requested token.
	// Every accumulated wallet matched at least one cohort by construction,
	// so this policy performs no additional filtering.
	MatchAny MatchPolicy = "ANY"
)
