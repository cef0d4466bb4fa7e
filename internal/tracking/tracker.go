package tracking

import (
	"context"
	"io"
	"log"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/storage"
)

// Default tracker settings.
const (
	DefaultFlushInterval = 5 * time.Second
	DefaultBatchSize     = 100
)

// ActivitySource delivers activity notifications. Satisfied by *WSClient.
type ActivitySource interface {
	Notifications() <-chan ActivityNotification
}

// Tracker consumes wallet activity and archives it in batches.
type Tracker struct {
	source        ActivitySource
	archive       storage.ActivityArchiveStore
	flushInterval time.Duration
	batchSize     int
	metrics       *observability.Metrics
	logger        *log.Logger

	now func() int64
}

// TrackerOption configures Tracker.
type TrackerOption func(*Tracker)

// WithFlushInterval sets how often a partial batch is flushed.
func WithFlushInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.flushInterval = d
	}
}

// WithBatchSize sets how many rows trigger an immediate flush.
func WithBatchSize(n int) TrackerOption {
	return func(t *Tracker) {
		t.batchSize = n
	}
}

// WithTrackerMetrics attaches Prometheus metrics.
func WithTrackerMetrics(m *observability.Metrics) TrackerOption {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// WithTrackerLogger sets the tracker logger.
func WithTrackerLogger(l *log.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = l
	}
}

// NewTracker creates a tracker archiving activity from source.
func NewTracker(source ActivitySource, archive storage.ActivityArchiveStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		source:        source,
		archive:       archive,
		flushInterval: DefaultFlushInterval,
		batchSize:     DefaultBatchSize,
		logger:        log.New(io.Discard, "", 0),
		now:           func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run consumes notifications until the context is cancelled or the source
// channel closes. Failed on-chain transactions are skipped. A partial batch
// is flushed before returning.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.flushInterval)
	defer ticker.Stop()

	var batch []*domain.WalletActivity

	flush := func(flushCtx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := t.archive.InsertBulk(flushCtx, batch); err != nil {
			t.logger.Printf("archive flush failed (%d rows dropped): %v", len(batch), err)
		} else {
			if t.metrics != nil {
				t.metrics.ActivityRowsArchived.Add(float64(len(batch)))
			}
			t.logger.Printf("archived %d activity rows", len(batch))
		}
		batch = nil
	}

	for {
		select {
		case <-ctx.Done():
			// The run context is gone; give the final flush its own deadline.
			finalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			flush(finalCtx)
			cancel()
			return ctx.Err()

		case notif, ok := <-t.source.Notifications():
			if !ok {
				flush(ctx)
				return nil
			}
			if notif.Err != nil {
				continue
			}
			batch = append(batch, &domain.WalletActivity{
				Wallet:     notif.Wallet,
				Signature:  notif.Signature,
				Slot:       notif.Slot,
				ObservedAt: t.now(),
			})
			if len(batch) >= t.batchSize {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
