// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"sort"

	"github.com/jcodagnone/efemapa/pipeline"
	"github.com/uber/h3-go/v4"
)

// DefaultHeatResolution is the H3 resolution used to bucket events for the
// heat layer. Resolution 3 cells are roughly 100km across, coarse enough
// that nearby events in the same city reinforce each other.
const DefaultHeatResolution = 3

// HeatPoint is one weighted sample for the heat layer, placed at the
// center of the H3 cell that aggregates the events falling into it.
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight int     `json:"weight"`
}

// HeatPoints buckets resolved events into H3 cells at the given resolution
// and returns one weighted point per occupied cell, ordered by cell id so
// the output is stable across runs.
func HeatPoints(events []pipeline.ResolvedEvent, resolution int) ([]HeatPoint, error) {
	counts := make(map[h3.Cell]int)

	for _, event := range events {
		cell, err := h3.LatLngToCell(h3.NewLatLng(event.Point.Lat, event.Point.Lng), resolution)
		if err != nil {
			return nil, fmt.Errorf("error converting to h3 cell at res %d: %w", resolution, err)
		}

		counts[cell]++
	}

	cells := make([]h3.Cell, 0, len(counts))
	for cell := range counts {
		cells = append(cells, cell)
	}

	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

	points := make([]HeatPoint, 0, len(cells))

	for _, cell := range cells {
		center, err := h3.CellToLatLng(cell)
		if err != nil {
			return nil, fmt.Errorf("error computing center of h3 cell %s: %w", cell, err)
		}

		points = append(points, HeatPoint{
			Lat:    center.Lat,
			Lng:    center.Lng,
			Weight: counts[cell],
		})
	}

	return points, nil
}
