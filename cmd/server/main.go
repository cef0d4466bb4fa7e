// Package main provides the wallet correlation service:
// - HTTP API: correlation runs, token buyer cohorts, wallet history, wallet lists
// - Live tracking (optional): WebSocket activity for saved wallets, archived to ClickHouse
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-wallet-lab/internal/correlation"
	"solana-wallet-lab/internal/helius"
	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/storage"
	chstore "solana-wallet-lab/internal/storage/clickhouse"
	"solana-wallet-lab/internal/storage/memory"
	"solana-wallet-lab/internal/storage/migrations"
	pgstore "solana-wallet-lab/internal/storage/postgres"
	"solana-wallet-lab/internal/tracking"
)

// stores holds the storage implementations the server uses.
type stores struct {
	listStore     storage.WalletListStore
	activityStore storage.ActivityArchiveStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	listen := flag.String("listen", ":8080", "HTTP listen address")
	heliusEndpoint := flag.String("helius-endpoint", helius.DefaultBaseURL, "Helius API base URL")
	heliusAPIKey := flag.String("helius-api-key", os.Getenv("HELIUS_API_KEY"), "Helius API key")
	rpm := flag.Int("rpm", helius.DefaultRequestsPerMinute, "Helius requests-per-minute allowance")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint for live tracking (optional)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if *heliusAPIKey == "" {
		logger.Fatal("--helius-api-key is required (or set HELIUS_API_KEY)")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	metrics := observability.NewMetrics("")

	client := helius.NewClient(*heliusAPIKey,
		helius.WithBaseURL(*heliusEndpoint),
		helius.WithRequestsPerMinute(*rpm),
		helius.WithMetrics(metrics),
		helius.WithLogger(log.New(os.Stdout, "[helius] ", log.LstdFlags)),
	)

	engine := correlation.NewEngine(client).WithMetrics(metrics)

	server := newServer(engine, client, st.listStore, st.activityStore, logger, metrics)

	// Live tracking runs only when a WebSocket endpoint is configured.
	if *wsEndpoint != "" {
		go func() {
			if err := runTracking(ctx, *wsEndpoint, st, metrics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("Tracking stopped: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:         *listen,
		Handler:      server.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on %s", *listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the storage implementations, applying migrations for
// database-backed mode.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		return &stores{
			listStore:     memory.NewWalletListStore(),
			activityStore: memory.NewActivityArchiveStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	st := &stores{
		listStore:     pgstore.NewWalletListStore(pool),
		activityStore: chstore.NewActivityArchiveStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return st, cleanup, nil
}

// runTracking subscribes to every wallet saved in any list and archives the
// observed activity.
func runTracking(ctx context.Context, wsEndpoint string, st *stores, metrics *observability.Metrics) error {
	wsLogger := log.New(os.Stdout, "[tracking] ", log.LstdFlags)

	client, err := tracking.NewWSClient(ctx, wsEndpoint, nil,
		tracking.WithWSMetrics(metrics),
		tracking.WithWSLogger(wsLogger),
	)
	if err != nil {
		return fmt.Errorf("create websocket client: %w", err)
	}
	defer client.Close()

	lists, err := st.listStore.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load lists for tracking: %w", err)
	}

	tracked := make(map[string]struct{})
	for _, list := range lists {
		for _, e := range list.Wallets {
			if _, seen := tracked[e.Address]; seen {
				continue
			}
			tracked[e.Address] = struct{}{}
			if err := client.TrackWallet(ctx, e.Address); err != nil {
				wsLogger.Printf("track %s failed: %v", e.Address, err)
			}
		}
	}
	wsLogger.Printf("tracking %d wallets", len(tracked))

	tracker := tracking.NewTracker(client, st.activityStore,
		tracking.WithTrackerMetrics(metrics),
		tracking.WithTrackerLogger(wsLogger),
	)
	return tracker.Run(ctx)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
