// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"log"
)

// Resolver tries an ordered list of candidate place names until one of them
// resolves. The cache is consulted before any external call; external calls
// pass through the limiter. Lookup failures are absorbed: only exhaustion of
// every candidate surfaces, and then only as "not found".
type Resolver struct {
	geocoder Geocoder
	cache    *Cache
	limiter  Limiter
}

// NewResolver wires a geocoding provider with a cache and rate limiter. The
// cache may be nil, in which case every lookup goes external.
func NewResolver(geocoder Geocoder, cache *Cache, limiter Limiter) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		cache:    cache,
		limiter:  limiter,
	}
}

// Resolve returns the coordinate of the first candidate that resolves, in
// input order. Candidates already in the cache return immediately without
// touching the limiter or the network.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) (Result, bool) {
	if r == nil || r.geocoder == nil {
		return Result{}, false
	}

	for _, candidate := range candidates {
		if point, ok := r.cache.Get(candidate); ok {
			return Result{Point: point, Provider: "cache", Found: true}, true
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				// Cancelled mid-wait; the event stays unresolved.
				return Result{}, false
			}
		}

		result, err := r.geocoder.Geocode(ctx, candidate)
		if err != nil {
			logLookupFailure(candidate, err)

			if ctx.Err() != nil {
				return Result{}, false
			}

			continue
		}

		if !result.Found {
			continue
		}

		if r.cache != nil {
			r.cache.Put(candidate, result.Point)
		}

		return result, true
	}

	return Result{}, false
}

func logLookupFailure(candidate string, err error) {
	switch {
	case IsRateLimitError(err):
		log.Printf("[!] Geocoding %q throttled: %v", candidate, err)
	case IsQuotaExceededError(err):
		log.Printf("[!] Geocoding %q rejected, quota exceeded: %v", candidate, err)
	case IsTimeoutError(err):
		log.Printf("[!] Geocoding %q timed out: %v", candidate, err)
	default:
		log.Printf("[!] Geocoding %q failed: %v", candidate, err)
	}
}
