// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline orchestrates event-to-location resolution: it extracts
// candidate place names from event text and runs them through the geocoding
// resolver, one event at a time.
package pipeline

import (
	"strings"
	"unicode/utf8"
)

// minCandidateRunes filters out stray abbreviations and punctuation
// fragments ("Fr", "St.", initials). Anything of 3 runes or fewer is
// discarded.
const minCandidateRunes = 4

// Candidates splits free event text into an ordered list of plausible place
// names: comma-separated segments, trimmed, short fragments dropped. The
// leftmost segment is tried first; in typical event phrasing it names the
// subject or the primary location, which is the bias we want.
func Candidates(text string) []string {
	segments := strings.Split(text, ",")
	out := make([]string, 0, len(segments))

	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) < minCandidateRunes {
			continue
		}

		out = append(out, segment)
	}

	return out
}
