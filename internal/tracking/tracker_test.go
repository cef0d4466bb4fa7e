package tracking

import (
	"context"
	"testing"
	"time"

	"solana-wallet-lab/internal/storage/memory"
)

// fakeSource feeds canned notifications to a tracker.
type fakeSource struct {
	ch chan ActivityNotification
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan ActivityNotification, 100)}
}

func (s *fakeSource) Notifications() <-chan ActivityNotification {
	return s.ch
}

func TestTracker_ArchivesActivity(t *testing.T) {
	source := newFakeSource()
	archive := memory.NewActivityArchiveStore()
	tracker := NewTracker(source, archive, WithBatchSize(10))
	tracker.now = func() int64 { return 12345 }

	source.ch <- ActivityNotification{Wallet: "w1", Signature: "s1", Slot: 100}
	source.ch <- ActivityNotification{Wallet: "w1", Signature: "s2", Slot: 101}
	close(source.ch)

	if err := tracker.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	rows, err := archive.GetByWallet(context.Background(), "w1", 0)
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("archived %d rows, want 2", len(rows))
	}
	if rows[0].ObservedAt != 12345 {
		t.Errorf("ObservedAt = %d, want 12345", rows[0].ObservedAt)
	}
}

func TestTracker_SkipsFailedTransactions(t *testing.T) {
	source := newFakeSource()
	archive := memory.NewActivityArchiveStore()
	tracker := NewTracker(source, archive)

	source.ch <- ActivityNotification{Wallet: "w1", Signature: "ok", Slot: 100}
	source.ch <- ActivityNotification{Wallet: "w1", Signature: "failed", Slot: 101, Err: map[string]interface{}{"InstructionError": nil}}
	close(source.ch)

	if err := tracker.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	rows, _ := archive.GetByWallet(context.Background(), "w1", 0)
	if len(rows) != 1 || rows[0].Signature != "ok" {
		t.Errorf("rows = %+v, want only the successful signature", rows)
	}
}

func TestTracker_FlushesOnBatchSize(t *testing.T) {
	source := newFakeSource()
	archive := memory.NewActivityArchiveStore()
	tracker := NewTracker(source, archive, WithBatchSize(2), WithFlushInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tracker.Run(ctx) }()

	source.ch <- ActivityNotification{Wallet: "w1", Signature: "s1", Slot: 1}
	source.ch <- ActivityNotification{Wallet: "w1", Signature: "s2", Slot: 2}

	// The batch-size flush happens without the ticker firing.
	deadline := time.After(2 * time.Second)
	for {
		rows, _ := archive.GetByWallet(context.Background(), "w1", 0)
		if len(rows) == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("batch was not flushed on size threshold")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestTracker_FlushesPartialBatchOnCancel(t *testing.T) {
	source := newFakeSource()
	archive := memory.NewActivityArchiveStore()
	tracker := NewTracker(source, archive, WithBatchSize(100), WithFlushInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tracker.Run(ctx) }()

	source.ch <- ActivityNotification{Wallet: "w1", Signature: "s1", Slot: 1}

	// Let the tracker consume the notification before cancelling.
	deadline := time.After(2 * time.Second)
	for len(source.ch) > 0 {
		select {
		case <-deadline:
			t.Fatal("tracker did not consume notification")
		case <-time.After(5 * time.Millisecond):
		}
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	rows, _ := archive.GetByWallet(context.Background(), "w1", 0)
	if len(rows) != 1 {
		t.Errorf("archived %d rows, want partial batch flushed on cancel", len(rows))
	}
}
