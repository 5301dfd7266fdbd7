// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"testing"
	"time"
)

func TestIntervalLimiterFirstCallImmediate(t *testing.T) {
	limiter := NewIntervalLimiter(time.Second)

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first Wait() took %v, want immediate", elapsed)
	}
}

func TestIntervalLimiterSpacesConsecutiveCalls(t *testing.T) {
	const interval = 100 * time.Millisecond

	limiter := NewIntervalLimiter(interval)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed < interval-10*time.Millisecond {
		t.Errorf("second Wait() returned after %v, want at least %v", elapsed, interval)
	}
}

func TestIntervalLimiterZeroIntervalDisabled(t *testing.T) {
	limiter := NewIntervalLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled limiter waited %v", elapsed)
	}
}

func TestIntervalLimiterCancellation(t *testing.T) {
	limiter := NewIntervalLimiter(time.Minute)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Wait() expected context error while gated")
	}
}

func TestNilLimiterIsSafe(t *testing.T) {
	var limiter *IntervalLimiter
	if err := limiter.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter Wait() error = %v", err)
	}
}
