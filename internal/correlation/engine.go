// Package correlation cross-references token buyer cohorts to find wallets
// active across multiple tokens, aggregates their per-token financials and
// assigns a bounded risk score.
package correlation

import (
	"context"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/observability"
)

// BuyerProvider returns the buyer records for one token mint. The provider
// must not return partial or synthetic data silently; any failure is
// reported as an error.
type BuyerProvider interface {
	FetchBuyers(ctx context.Context, mint string) ([]*domain.BuyerRecord, error)
}

// Engine cross-references buyer cohorts. Each Correlate call owns a fresh
// accumulator; an Engine is safe for concurrent runs.
type Engine struct {
	provider BuyerProvider
	metrics  *observability.Metrics
}

// NewEngine creates a correlation engine backed by the given provider.
func NewEngine(provider BuyerProvider) *Engine {
	return &Engine{provider: provider}
}

// WithMetrics attaches Prometheus metrics to the engine.
func (e *Engine) WithMetrics(m *observability.Metrics) *Engine {
	e.metrics = m
	return e
}

// walletAccum accumulates one wallet's state across cohorts.
type walletAccum struct {
	wallet       string
	mints        []string
	mintSeen     map[string]struct{}
	totalPnL     float64
	transactions []domain.Transaction
}

// Correlate retrieves each cohort in the given order, retains records that
// pass the cohort's filter, accumulates per-wallet aggregates, applies the
// match policy and scores the survivors.
//
// Cohorts are fetched strictly sequentially: one retrieval in flight at a
// time, because the provider may be rate limited and the accumulator is
// built without synchronization. Any retrieval failure aborts the run with
// a *RetrievalError naming the offending mint; no partial results are
// returned. Cancellation is honored between cohort retrievals, never
// mid-accumulation of a single cohort.
//
// Output order is the order in which wallets were first seen across
// cohorts, not sorted by any wallet field.
func (e *Engine) Correlate(ctx context.Context, configs []domain.CohortConfig, policy domain.MatchPolicy) ([]*domain.CorrelatedWallet, error) {
	if len(configs) == 0 {
		return nil, ErrNoCohorts
	}
	if policy != domain.MatchAll && policy != domain.MatchAny {
		return nil, ErrUnknownPolicy
	}

	accum := make(map[string]*walletAccum)
	var order []string

	for _, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buyers, err := e.provider.FetchBuyers(ctx, cfg.Mint)
		if err != nil {
			return nil, &RetrievalError{Mint: cfg.Mint, Err: err}
		}
		if e.metrics != nil {
			e.metrics.CohortsFetched.Inc()
		}

		for _, buyer := range buyers {
			if buyer == nil || !matchesFilter(buyer, cfg.Filter) {
				continue
			}

			a, ok := accum[buyer.Wallet]
			if !ok {
				a = &walletAccum{
					wallet:   buyer.Wallet,
					mintSeen: make(map[string]struct{}),
				}
				accum[buyer.Wallet] = a
				order = append(order, buyer.Wallet)
			}

			if _, seen := a.mintSeen[cfg.Mint]; !seen {
				a.mintSeen[cfg.Mint] = struct{}{}
				a.mints = append(a.mints, cfg.Mint)
			}
			a.totalPnL += buyer.PnL
			a.transactions = append(a.transactions, buyer.Transactions...)
		}
	}

	var out []*domain.CorrelatedWallet
	for _, wallet := range order {
		a := accum[wallet]

		// ALL requires presence in every cohort. ANY requires at least
		// one match, which holds for every accumulated wallet by
		// construction, so it keeps the full accumulator.
		if policy == domain.MatchAll && len(a.mints) != len(configs) {
			continue
		}

		cw := &domain.CorrelatedWallet{
			Wallet:       a.wallet,
			Mints:        a.mints,
			TotalPnL:     a.totalPnL,
			Transactions: a.transactions,
		}
		cw.RiskScore = ComputeRiskScore(cw)
		out = append(out, cw)
	}

	if e.metrics != nil {
		e.metrics.CorrelationRuns.WithLabelValues(string(policy)).Inc()
		e.metrics.CorrelatedWallets.Add(float64(len(out)))
	}
	return out, nil
}
