// Command correlate runs a one-shot wallet correlation from a JSON run
// config and writes the result as CSV.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"solana-wallet-lab/internal/correlation"
	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/helius"
	"solana-wallet-lab/internal/pubkey"
	"solana-wallet-lab/internal/reporting"
)

// runConfig is the JSON shape of a correlation run.
type runConfig struct {
	Policy  string `json:"policy"`
	Cohorts []struct {
		Mint   string `json:"mint"`
		Filter struct {
			MinBuyAmount float64  `json:"min_buy_amount,omitempty"`
			BeforeTime   int64    `json:"before_time,omitempty"`
			PnLCondition string   `json:"pnl_condition,omitempty"`
			MinPnL       *float64 `json:"min_pnl,omitempty"`
		} `json:"filter"`
	} `json:"cohorts"`
}

func main() {
	configPath := flag.String("config", "", "Path to JSON run config (required)")
	outPath := flag.String("out", "", "Output CSV file (default: stdout)")
	heliusEndpoint := flag.String("helius-endpoint", helius.DefaultBaseURL, "Helius API base URL")
	heliusAPIKey := flag.String("helius-api-key", os.Getenv("HELIUS_API_KEY"), "Helius API key")
	rpm := flag.Int("rpm", helius.DefaultRequestsPerMinute, "Helius requests-per-minute allowance")
	flag.Parse()

	logger := log.New(os.Stderr, "[correlate] ", log.LstdFlags)

	if *configPath == "" {
		logger.Fatal("--config is required")
	}
	if *heliusAPIKey == "" {
		logger.Fatal("--helius-api-key is required (or set HELIUS_API_KEY)")
	}

	configs, policy, err := loadRunConfig(*configPath)
	if err != nil {
		logger.Fatalf("Invalid run config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := helius.NewClient(*heliusAPIKey,
		helius.WithBaseURL(*heliusEndpoint),
		helius.WithRequestsPerMinute(*rpm),
		helius.WithLogger(logger),
	)
	engine := correlation.NewEngine(client)

	wallets, err := engine.Correlate(ctx, configs, policy)
	if err != nil {
		logger.Fatalf("Correlation failed: %v", err)
	}
	logger.Printf("Correlated %d wallets across %d cohorts (policy %s)", len(wallets), len(configs), policy)

	csv := reporting.RenderCorrelationCSV(wallets)
	if *outPath == "" {
		fmt.Print(csv)
		return
	}
	if err := os.WriteFile(*outPath, []byte(csv), 0o644); err != nil {
		logger.Fatalf("Write %s: %v", *outPath, err)
	}
	logger.Printf("Wrote %s", *outPath)
}

// loadRunConfig reads and validates the JSON run config.
func loadRunConfig(path string) ([]domain.CohortConfig, domain.MatchPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var rc runConfig
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}
	if len(rc.Cohorts) < 2 {
		return nil, "", fmt.Errorf("at least 2 cohorts are required, got %d", len(rc.Cohorts))
	}

	configs := make([]domain.CohortConfig, 0, len(rc.Cohorts))
	for _, c := range rc.Cohorts {
		if err := pubkey.Validate(c.Mint); err != nil {
			return nil, "", fmt.Errorf("cohort mint %q: %w", c.Mint, err)
		}
		configs = append(configs, domain.CohortConfig{
			Mint: c.Mint,
			Filter: domain.CohortFilter{
				MinBuyAmount: c.Filter.MinBuyAmount,
				BeforeTime:   c.Filter.BeforeTime,
				PnLCondition: domain.PnLCondition(c.Filter.PnLCondition),
				MinPnL:       c.Filter.MinPnL,
			},
		})
	}
	return configs, domain.MatchPolicy(rc.Policy), nil
}
