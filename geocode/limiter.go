// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"sync"
	"time"
)

// Limiter gates external geocoding lookups. Cached answers never pass
// through it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter enforces a minimum interval between consecutive callers of
// Wait. A single limiter instance must gate every non-cached lookup of the
// run so the external service sees at most one request per interval,
// whichever provider or goroutine issues it.
type IntervalLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

// NewIntervalLimiter creates a limiter with the given minimum interval
// between lookups. A zero or negative interval disables the gate.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous caller was released, or until the context is cancelled.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()

	next := l.last.Add(l.interval)
	if !next.After(now) {
		l.last = now
		l.mu.Unlock()

		return nil
	}

	// Reserve the slot before sleeping so concurrent callers queue up
	// behind it instead of racing for the same slot.
	l.last = next
	l.mu.Unlock()

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
