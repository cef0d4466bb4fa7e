package helius

import (
	"sort"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/pnl"
)

// Market-cap proxy supply. Enhanced transactions carry no supply data, so
// the proxy assumes the 1B-unit supply common to pump-style launches and
// scales the observed per-token swap price by it.
const proxySupply = 1_000_000_000

// swapLeg is a swap reduced to the fields the aggregation needs.
type swapLeg struct {
	wallet      string
	side        domain.TxSide
	solLamports float64
	tokenAmount float64
}

// extractSwapLeg pulls the target-mint leg out of a transaction's swap
// event. Returns false when the transaction is not a swap touching the
// mint, or when either leg is degenerate.
func extractSwapLeg(tx EnhancedTransaction, mint string) (swapLeg, bool) {
	if tx.Events.Swap == nil || tx.FeePayer == "" {
		return swapLeg{}, false
	}

	leg := swapLeg{wallet: tx.FeePayer}

	for _, tr := range tx.TokenTransfers {
		switch tr.Mint {
		case mint:
			if leg.tokenAmount != 0 {
				continue
			}
			leg.tokenAmount = tr.TokenAmount
			switch tx.FeePayer {
			case tr.ToUserAccount:
				leg.side = domain.TxBuy
			case tr.FromUserAccount:
				leg.side = domain.TxSell
			default:
				return swapLeg{}, false
			}
		case WSOLMint:
			if leg.solLamports == 0 {
				leg.solLamports = tr.TokenAmount * lamportsPerSol
			}
		}
	}

	if leg.tokenAmount <= 0 || leg.solLamports <= 0 {
		return swapLeg{}, false
	}
	return leg, true
}

// marketCapProxy estimates a market cap from the swap's implied per-token
// price in SOL.
func marketCapProxy(leg swapLeg) float64 {
	pricePerToken := (leg.solLamports / lamportsPerSol) / leg.tokenAmount
	return pricePerToken * proxySupply
}

// ParseBuyerTransactions aggregates a token's enhanced transactions into
// per-wallet buyer records, ordered by each wallet's first appearance.
func ParseBuyerTransactions(txs []EnhancedTransaction, mint string) []*domain.BuyerRecord {
	byWallet := make(map[string][]domain.Transaction)
	var order []string

	// Pages arrive newest first; walk backwards so each wallet's
	// transactions accumulate in chronological order.
	for i := len(txs) - 1; i >= 0; i-- {
		leg, ok := extractSwapLeg(txs[i], mint)
		if !ok {
			continue
		}

		if _, seen := byWallet[leg.wallet]; !seen {
			order = append(order, leg.wallet)
		}
		byWallet[leg.wallet] = append(byWallet[leg.wallet], domain.Transaction{
			Signature:   txs[i].Signature,
			Timestamp:   txs[i].Timestamp,
			Side:        leg.side,
			SolAmount:   leg.solLamports,
			TokenAmount: leg.tokenAmount,
			MarketCap:   marketCapProxy(leg),
		})
	}

	buyers := make([]*domain.BuyerRecord, 0, len(order))
	for _, wallet := range order {
		record := pnl.AggregateBuyer(wallet, byWallet[wallet])
		// Wallets that only ever sold are not buyers.
		if record.BuyAmount == 0 {
			continue
		}
		buyers = append(buyers, record)
	}
	return buyers
}

// ParseWalletTrades extracts a wallet's swap trades from its enhanced
// transactions, newest first.
func ParseWalletTrades(txs []EnhancedTransaction, wallet string) []domain.WalletTrade {
	var trades []domain.WalletTrade

	for _, tx := range txs {
		if tx.Events.Swap == nil || tx.FeePayer != wallet {
			continue
		}

		// The traded mint is the non-SOL side of the swap.
		tradedMint := ""
		for _, tr := range tx.TokenTransfers {
			if tr.Mint != WSOLMint && tr.Mint != "" {
				tradedMint = tr.Mint
				break
			}
		}
		if tradedMint == "" {
			continue
		}

		leg, ok := extractSwapLeg(tx, tradedMint)
		if !ok {
			continue
		}

		trades = append(trades, domain.WalletTrade{
			Signature: tx.Signature,
			Timestamp: tx.Timestamp,
			Mint:      tradedMint,
			Side:      leg.side,
			SolAmount: leg.solLamports,
			MarketCap: marketCapProxy(leg),
		})
	}

	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Timestamp > trades[j].Timestamp })
	return trades
}
