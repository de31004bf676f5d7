package ratelimit

import (
	"context"
	"math/rand/v2"
	"time"
)

// Limiter paces operations to a fixed rate with optional jitter. It is safe
// for concurrent use; each tick releases exactly one waiter.
type Limiter struct {
	ticker   *time.Ticker
	jitter   float64 // 0.0 to 1.0
	interval time.Duration
}

// New creates a limiter for rps operations per second. jitter is clamped to
// [0, 1] and delays each release by up to jitter*interval. rps <= 0 yields a
// limiter that never blocks.
func New(rps, jitter float64) *Limiter {
	if rps <= 0 {
		return &Limiter{}
	}
	jitter = min(max(jitter, 0), 1)

	interval := time.Duration(float64(time.Second) / rps)
	return &Limiter{
		ticker:   time.NewTicker(interval),
		jitter:   jitter,
		interval: interval,
	}
}

// Wait blocks until the next operation may run or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.ticker == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ticker.C:
	}

	if l.jitter == 0 {
		return nil
	}
	extra := time.Duration(float64(l.interval) * l.jitter * rand.Float64())
	if extra <= 0 {
		return nil
	}
	timer := time.NewTimer(extra)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the underlying ticker.
func (l *Limiter) Stop() {
	if l != nil && l.ticker != nil {
		l.ticker.Stop()
	}
}
