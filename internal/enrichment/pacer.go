package enrichment

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer enforces a minimum gap between consecutive provider calls. It is not
// safe for concurrent use; the engine calls it from a single goroutine.
type Pacer struct {
	delay    time.Duration
	sleep    SleepFunc
	now      func() time.Time
	lastCall time.Time
}

// NewPacer returns a pacer that waits at least delay between calls. A nil
// sleep uses a context-aware timer.
func NewPacer(delay time.Duration, sleep SleepFunc) *Pacer {
	if sleep == nil {
		sleep = sleepContext
	}
	return &Pacer{delay: delay, sleep: sleep, now: time.Now}
}

// Wait blocks until the next call may be made. The first call never waits.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.delay > 0 && !p.lastCall.IsZero() {
		if remaining := p.delay - p.now().Sub(p.lastCall); remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.lastCall = p.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
