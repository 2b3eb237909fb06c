package garmin

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a fixed minimum interval between outgoing requests. It is
// a self-imposed rate bound, not a backpressure signal from the provider:
// the interval is applied unconditionally and never adapts to throttling
// responses.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer creates a pacer with the given minimum interval between calls.
// A zero or negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the interval since the previous request has elapsed
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	elapsed := time.Since(p.last)
	if elapsed < p.interval {
		wait := p.interval - elapsed
		p.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		p.mu.Lock()
	}
	p.last = time.Now()
	p.mu.Unlock()

	return nil
}
