// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves free-text place names to coordinates. It is the
// stateful core of the program: a persistent first-write-wins cache, a rate
// limit gate shared by all external lookups, and a resolver that walks an
// ordered candidate list until one of them geocodes.
package geocode

import (
	"context"

	"github.com/jcodagnone/efemapa/spatial"
)

// Result represents a geocoding result from any provider.
type Result struct {
	Point       spatial.Point
	DisplayName string
	Provider    string
	Found       bool
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (Result, error)
}
