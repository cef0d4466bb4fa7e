// Package pnl computes realized profit-and-loss using a weighted-average
// cost basis over the market-cap proxy carried by each transaction.
package pnl

import (
	"sort"

	"solana-wallet-lab/internal/domain"
)

// WeightedBuyPrice returns the token-amount-weighted average buy price
// proxy and the total token amount bought. Returns (0, 0) for no buys.
func WeightedBuyPrice(buys []domain.Transaction) (price, totalTokens float64) {
	var weighted float64
	for _, b := range buys {
		totalTokens += b.TokenAmount
		weighted += b.MarketCap * b.TokenAmount
	}
	if totalTokens == 0 {
		return 0, 0
	}
	return weighted / totalTokens, totalTokens
}

// Realized computes realized PnL across a wallet's transactions for one
// token. Sells are processed in chronological order against a running
// remaining-tokens counter; each sell consumes at most what remains and
// contributes (sellPrice - weightedBuyPrice) * consumed / totalBuyTokens.
// Zero total buy tokens yields zero PnL.
func Realized(txs []domain.Transaction) float64 {
	var buys, sells []domain.Transaction
	for _, tx := range txs {
		switch tx.Side {
		case domain.TxBuy:
			buys = append(buys, tx)
		case domain.TxSell:
			sells = append(sells, tx)
		}
	}

	weightedBuyPrice, totalBuyTokens := WeightedBuyPrice(buys)
	if totalBuyTokens == 0 {
		return 0
	}

	sorted := make([]domain.Transaction, len(sells))
	copy(sorted, sells)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	var total float64
	remaining := totalBuyTokens
	for _, sell := range sorted {
		consumed := sell.TokenAmount
		if consumed > remaining {
			consumed = remaining
		}
		total += (sell.MarketCap - weightedBuyPrice) * consumed / totalBuyTokens
		remaining -= consumed
	}
	return total
}

// AggregateBuyer collapses one wallet's transactions for a token into a
// BuyerRecord: SOL totals per side, first buy, last sell, realized PnL.
// Transaction order is preserved as given (discovery order).
func AggregateBuyer(wallet string, txs []domain.Transaction) *domain.BuyerRecord {
	r := &domain.BuyerRecord{
		Wallet:       wallet,
		Transactions: txs,
	}

	for _, tx := range txs {
		switch tx.Side {
		case domain.TxBuy:
			r.BuyAmount += tx.SolAmount
			if r.BuyTime == 0 || tx.Timestamp < r.BuyTime {
				r.BuyTime = tx.Timestamp
			}
		case domain.TxSell:
			r.SellAmount += tx.SolAmount
			if tx.Timestamp > r.SellTime {
				r.SellTime = tx.Timestamp
			}
		}
	}

	r.PnL = Realized(txs)
	return r
}
