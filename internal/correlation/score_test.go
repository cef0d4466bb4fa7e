package correlation

import (
	"testing"

	"solana-wallet-lab/internal/domain"
)

func txAt(ts int64) domain.Transaction {
	return domain.Transaction{Timestamp: ts, Side: domain.TxBuy}
}

func TestComputeRiskScore(t *testing.T) {
	tests := []struct {
		name   string
		wallet domain.CorrelatedWallet
		want   int
	}{
		{
			name:   "single token no bonuses",
			wallet: domain.CorrelatedWallet{Mints: []string{"a"}},
			want:   10,
		},
		{
			name: "profit bonus without clustering",
			wallet: domain.CorrelatedWallet{
				Mints:    []string{"a"},
				TotalPnL: 15000,
				// gaps of 400s, above the clustering threshold
				Transactions: []domain.Transaction{txAt(0), txAt(400), txAt(800)},
			},
			want: 40,
		},
		{
			name: "profit at threshold not counted",
			wallet: domain.CorrelatedWallet{
				Mints:    []string{"a"},
				TotalPnL: 10000,
			},
			want: 10,
		},
		{
			name: "clustered transactions",
			wallet: domain.CorrelatedWallet{
				Mints:        []string{"a", "b"},
				Transactions: []domain.Transaction{txAt(0), txAt(100), txAt(250)},
			},
			want: 40,
		},
		{
			name: "single transaction defines no gap",
			wallet: domain.CorrelatedWallet{
				Mints:        []string{"a"},
				Transactions: []domain.Transaction{txAt(0)},
			},
			want: 10,
		},
		{
			name: "unsorted timestamps still clustered",
			wallet: domain.CorrelatedWallet{
				Mints:        []string{"a"},
				Transactions: []domain.Transaction{txAt(500), txAt(0), txAt(250)},
			},
			want: 30,
		},
		{
			name: "capped at 100",
			wallet: domain.CorrelatedWallet{
				Mints:        []string{"a", "b", "c", "d", "e", "f", "g", "h"},
				TotalPnL:     50000,
				Transactions: []domain.Transaction{txAt(0), txAt(1)},
			},
			want: 100,
		},
		{
			name:   "empty wallet scores zero",
			wallet: domain.CorrelatedWallet{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeRiskScore(&tt.wallet); got != tt.want {
				t.Errorf("ComputeRiskScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeRiskScore_DoesNotMutateInput(t *testing.T) {
	w := domain.CorrelatedWallet{
		Mints:        []string{"a"},
		Transactions: []domain.Transaction{txAt(900), txAt(100), txAt(500)},
	}
	ComputeRiskScore(&w)

	want := []int64{900, 100, 500}
	for i, tx := range w.Transactions {
		if tx.Timestamp != want[i] {
			t.Fatalf("transaction order mutated: %v", w.Transactions)
		}
	}
}
