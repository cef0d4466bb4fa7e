// Package helius retrieves token buyer cohorts and wallet trade history
// from the Helius enhanced transactions API.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.helius.xyz/v0"
	DefaultTimeout           = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 1 * time.Second
	DefaultMaxDelay          = 10 * time.Second
	DefaultBackoffMult       = 2.0
	DefaultRequestsPerMinute = 60
	DefaultPageSize          = 100
	DefaultMaxTransactions   = 1000
)

// Client talks to the Helius REST API. All requests pass through a
// fixed-interval rate limiter sized to the account's requests-per-minute
// allowance.
type Client struct {
	baseURL         string
	apiKey          string
	client          *http.Client
	maxRetries      int
	retryDelay      time.Duration
	maxDelay        time.Duration
	backoffMult     float64
	pageSize        int
	maxTransactions int
	limiter         *rateLimiter
	metrics         *observability.Metrics
	logger          *log.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithRequestsPerMinute sizes the rate limiter.
func WithRequestsPerMinute(rpm int) ClientOption {
	return func(c *Client) {
		c.limiter = newRateLimiter(rpm)
	}
}

// WithMaxTransactions caps how many transactions a cohort fetch pages through.
func WithMaxTransactions(n int) ClientOption {
	return func(c *Client) {
		c.maxTransactions = n
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithMetrics attaches Prometheus metrics to the client.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the client logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Helius API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:         DefaultBaseURL,
		apiKey:          apiKey,
		client:          &http.Client{Timeout: DefaultTimeout},
		maxRetries:      DefaultMaxRetries,
		retryDelay:      DefaultRetryDelay,
		maxDelay:        DefaultMaxDelay,
		backoffMult:     DefaultBackoffMult,
		pageSize:        DefaultPageSize,
		maxTransactions: DefaultMaxTransactions,
		limiter:         newRateLimiter(DefaultRequestsPerMinute),
		logger:          log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one API request with rate limiting, retries and exponential
// backoff. Network errors, 429 and 5xx are retried; other non-200 statuses
// are not.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqBody, result interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		waited, err := c.limiter.wait(ctx)
		if err != nil {
			return err
		}
		if c.metrics != nil && waited > 0 {
			c.metrics.RateLimitWait.Observe(waited.Seconds())
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if c.metrics != nil {
			c.metrics.ProviderRequestLatency.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			c.countRequest("error")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			c.countRequest("error")
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
			c.countRequest("error")
			c.logger.Printf("retryable status %d for %s %s", resp.StatusCode, method, path)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.countRequest("error")
			return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				c.countRequest("error")
				return fmt.Errorf("unmarshal response: %w", err)
			}
		}

		c.countRequest("success")
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) countRequest(outcome string) {
	if c.metrics != nil {
		c.metrics.ProviderRequests.WithLabelValues(outcome).Inc()
	}
}

// fetchTransactions pages through enhanced transactions for an address,
// newest first, up to the client's transaction cap.
func (c *Client) fetchTransactions(ctx context.Context, address string) ([]EnhancedTransaction, error) {
	var all []EnhancedTransaction
	before := ""

	for len(all) < c.maxTransactions {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		if before != "" {
			query.Set("before", before)
		}

		var page []EnhancedTransaction
		path := "/addresses/" + address + "/transactions"
		if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		before = page[len(page)-1].Signature

		if len(page) < c.pageSize {
			break
		}
	}

	if len(all) > c.maxTransactions {
		all = all[:c.maxTransactions]
	}
	return all, nil
}

// FetchBuyers retrieves the token's transaction history and aggregates it
// into per-wallet buyer records.
func (c *Client) FetchBuyers(ctx context.Context, mint string) ([]*domain.BuyerRecord, error) {
	txs, err := c.fetchTransactions(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", mint, err)
	}
	buyers := ParseBuyerTransactions(txs, mint)
	c.logger.Printf("mint %s: %d transactions, %d buyers", mint, len(txs), len(buyers))
	return buyers, nil
}

// FetchWalletHistory retrieves a wallet's swap trades, newest first.
func (c *Client) FetchWalletHistory(ctx context.Context, wallet string, limit int) ([]domain.WalletTrade, error) {
	txs, err := c.fetchTransactions(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", wallet, err)
	}
	trades := ParseWalletTrades(txs, wallet)
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

// GetTokenMetadata retrieves name, symbol and decimals for a mint.
func (c *Client) GetTokenMetadata(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	reqBody := map[string]interface{}{
		"mintAccounts": []string{mint},
	}

	var items []tokenMetadataResponse
	if err := c.do(ctx, http.MethodPost, "/token-metadata", nil, reqBody, &items); err != nil {
		return nil, fmt.Errorf("token metadata for %s: %w", mint, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no metadata returned for %s", mint)
	}

	item := items[0]
	return &domain.TokenMetadata{
		Mint:     mint,
		Name:     item.OnChainMetadata.Metadata.Data.Name,
		Symbol:   item.OnChainMetadata.Metadata.Data.Symbol,
		Decimals: item.OnChainAccountInfo.AccountInfo.Data.Parsed.Info.Decimals,
	}, nil
}
