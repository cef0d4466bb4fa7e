package helius

import (
	"context"
	"sync"
	"time"
)

// rateLimiter spaces requests at a fixed interval derived from a
// requests-per-minute allowance.
type rateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func newRateLimiter(rpm int) *rateLimiter {
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}
	return &rateLimiter{interval: time.Minute / time.Duration(rpm)}
}

// wait blocks until the next request slot and returns how long it waited.
func (l *rateLimiter) wait(ctx context.Context) (time.Duration, error) {
	l.mu.Lock()
	now := time.Now()
	var sleep time.Duration
	if l.next.After(now) {
		sleep = l.next.Sub(now)
		l.next = l.next.Add(l.interval)
	} else {
		l.next = now.Add(l.interval)
	}
	l.mu.Unlock()

	if sleep <= 0 {
		return 0, nil
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(sleep):
		return sleep, nil
	}
}
