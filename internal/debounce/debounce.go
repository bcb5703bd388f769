package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer enforces a minimum spacing between invocations of a downstream
// action by blocking the caller until the spacing is satisfied. The last-run
// timestamp is process-local; in a multi-process deployment each process
// gets its own window, which only over-triggers the downstream action.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	now      func() time.Time
}

// New creates a Debouncer with the given minimum spacing.
func New(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		now:      time.Now,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous caller's slot, then claims the next slot. Concurrent callers are
// serialized so every invocation keeps the spacing.
func (d *Debouncer) Wait(ctx context.Context) error {
	d.mu.Lock()
	now := d.now()
	slot := d.next
	if slot.Before(now) {
		slot = now
	}
	d.next = slot.Add(d.interval)
	d.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
