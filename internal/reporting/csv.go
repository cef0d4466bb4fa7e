// Package reporting renders correlation results and wallet lists for
// presentation: CSV exports and display formatting.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"solana-wallet-lab/internal/domain"
)

// RenderCorrelationCSV renders correlated wallets as CSV string.
func RenderCorrelationCSV(wallets []*domain.CorrelatedWallet) string {
	var sb strings.Builder

	sb.WriteString("wallet,tokens,token_count,total_pnl,transaction_count,risk_score\n")

	for _, w := range wallets {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%d,%d\n",
			csvEscape(w.Wallet),
			csvEscape(strings.Join(w.Mints, ";")),
			len(w.Mints),
			w.TotalPnL,
			len(w.Transactions),
			w.RiskScore,
		))
	}

	return sb.String()
}

// RenderWalletListCSV renders a saved wallet list as CSV string.
func RenderWalletListCSV(list *domain.WalletList) string {
	var sb strings.Builder

	sb.WriteString("address,note,added_at,pnl,risk_score,buy_amount_sol,sell_amount_sol\n")

	for _, e := range list.Wallets {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.6f,%d,%s,%s\n",
			csvEscape(e.Address),
			csvEscape(e.Note),
			time.Unix(e.AddedAt, 0).UTC().Format(time.RFC3339),
			e.PnL,
			e.RiskScore,
			FormatSol(e.BuyAmount),
			FormatSol(e.SellAmount),
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing commas, quotes or newlines.
func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
