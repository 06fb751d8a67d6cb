// Package ratelimit provides pacing between external calls: a Pacer that
// enforces a minimum interval between successive calls, and a Budget that
// caps the number of remote calls per run.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces successive calls at least one interval apart. The wait is
// cancellable through the context, so a run deadline is honored between
// items rather than mid-call.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until the pacing interval since the previous call has elapsed.
// The first call never waits. Returns the context error if cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := p.now()
	var wait time.Duration
	if p.next.After(now) {
		wait = p.next.Sub(now)
	}
	// reserve the next slot before sleeping so concurrent callers queue up
	p.next = now.Add(wait + p.interval)
	p.mu.Unlock()

	if wait > 0 {
		return p.sleep(ctx, wait)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Budget caps remote calls for a single run. A max of zero or less means
// unlimited.
type Budget struct {
	mu   sync.Mutex
	used int
	max  int
}

func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Take reserves one call from the budget, reporting whether it was granted.
func (b *Budget) Take() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return false
	}
	b.used++
	return true
}

// Used returns how many calls were granted so far.
func (b *Budget) Used() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
