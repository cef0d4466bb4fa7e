package reporting

import (
	"fmt"

	"solana-wallet-lab/internal/domain"
)

const lamportsPerSol = 1_000_000_000

// FormatSol renders a lamport amount as SOL with 4 decimal places.
func FormatSol(lamports float64) string {
	return fmt.Sprintf("%.4f", lamports/lamportsPerSol)
}

// FormatWallet shortens a wallet address for display: first and last four
// characters joined by an ellipsis.
func FormatWallet(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}

// FormatPnL renders a PnL value with an explicit sign.
func FormatPnL(pnl float64) string {
	return fmt.Sprintf("%+.2f", pnl)
}

// FormatUsd renders a dollar amount for display.
func FormatUsd(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// ListSummary aggregates display statistics over a wallet list.
type ListSummary struct {
	WalletCount  int
	TotalPnL     float64
	AvgRiskScore float64
}

// Summarize computes a list's display summary.
func Summarize(list *domain.WalletList) ListSummary {
	s := ListSummary{WalletCount: len(list.Wallets)}
	if len(list.Wallets) == 0 {
		return s
	}

	var riskSum int
	for _, e := range list.Wallets {
		s.TotalPnL += e.PnL
		riskSum += e.RiskScore
	}
	s.AvgRiskScore = float64(riskSum) / float64(len(list.Wallets))
	return s
}
