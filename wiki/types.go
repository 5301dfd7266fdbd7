// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

// Package wiki fetches the "Selected anniversaries" page for a calendar date
// from Wikipedia and turns it into a list of historical events.
package wiki

// Link points at a related Wikipedia article.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Event is one historical event for the requested date. Immutable once
// fetched; the resolution pipeline reads it, never writes it.
type Event struct {
	Text  string `json:"text"`
	Title string `json:"title"`
	Links []Link `json:"links"`
}
