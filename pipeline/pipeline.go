// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"log"
	"os"

	"github.com/jcodagnone/efemapa/geocode"
	"github.com/jcodagnone/efemapa/spatial"
	"github.com/jcodagnone/efemapa/wiki"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// CandidateResolver resolves an ordered candidate list to a coordinate.
// Satisfied by *geocode.Resolver.
type CandidateResolver interface {
	Resolve(ctx context.Context, candidates []string) (geocode.Result, bool)
}

// ResolvedEvent pairs an event with the coordinate that resolved for it.
// Events that resolve to nothing never produce one.
type ResolvedEvent struct {
	Event wiki.Event    `json:"event"`
	Point spatial.Point `json:"point"`
}

// Pipeline runs candidate extraction and geocoding across a batch of events.
type Pipeline struct {
	resolver CandidateResolver
}

// New creates a Pipeline on top of a resolver.
func New(resolver CandidateResolver) *Pipeline {
	return &Pipeline{resolver: resolver}
}

// ResolveAll resolves a batch of events in input order, one at a time: the
// external rate limit is only honest with a single outstanding lookup.
// Unresolved events are skipped, not errors; the output keeps the relative
// order of the events that did resolve.
func (p *Pipeline) ResolveAll(ctx context.Context, events []wiki.Event) []ResolvedEvent {
	resolved := make([]ResolvedEvent, 0, len(events))

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(events),
			progressbar.OptionSetDescription("Resolving locations"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, event := range events {
		if ctx.Err() != nil {
			log.Printf("[!] Resolution interrupted, keeping %d events resolved so far", len(resolved))

			break
		}

		result, ok := p.resolver.Resolve(ctx, Candidates(event.Text))
		if ok {
			resolved = append(resolved, ResolvedEvent{Event: event, Point: result.Point})
		} else if bar == nil {
			log.Printf("No location found for %q", event.Title)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Printf("updating progress bar: %v", err)
			}
		}
	}

	return resolved
}
