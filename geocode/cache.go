// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jcodagnone/efemapa/spatial"
	"github.com/jcodagnone/efemapa/utils/textutils"
)

// Entry is one persisted cache record. Query keeps the original spelling;
// the map key is its normalized form.
type Entry struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Cache maps normalized place names to coordinates. A key is written at
// most once per lifetime of the cache file: a place name resolves to a
// stable coordinate for the run and across runs.
//
// The cache is only ever touched from the single pipeline goroutine, so it
// carries no locking.
type Cache struct {
	entries map[string]Entry
}

// NewCache returns an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]Entry{}}
}

// LoadCache reads a cache file. A missing file is a valid initial state and
// malformed content is downgraded to an empty cache with a warning; neither
// is an error for the caller.
func LoadCache(path string) *Cache {
	cache := NewCache()

	payload, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[!] Ignoring unreadable location cache %s: %v", path, err)
		}

		return cache
	}

	if err := json.Unmarshal(payload, &cache.entries); err != nil {
		log.Printf("[!] Ignoring malformed location cache %s: %v", path, err)

		return NewCache()
	}

	if cache.entries == nil {
		cache.entries = map[string]Entry{}
	}

	return cache
}

// Get looks up a place name. The second return value reports whether the
// key was present.
func (c *Cache) Get(query string) (spatial.Point, bool) {
	if c == nil {
		return spatial.Point{}, false
	}

	entry, ok := c.entries[textutils.Normalize(query)]
	if !ok {
		return spatial.Point{}, false
	}

	return spatial.Point{Lat: entry.Lat, Lng: entry.Lng}, true
}

// Put inserts a resolution. If the key is already present the call is a
// no-op: first write wins.
func (c *Cache) Put(query string, point spatial.Point) {
	if c == nil {
		return
	}

	key := textutils.Normalize(query)
	if key == "" {
		return
	}

	if _, exists := c.entries[key]; exists {
		return
	}

	c.entries[key] = Entry{Query: query, Lat: point.Lat, Lng: point.Lng}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}

	return len(c.entries)
}

// Save serializes the full mapping, creating the parent directory if needed.
func (c *Cache) Save(path string) error {
	if c == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}

	payload, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling location cache: %w", err)
	}

	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing location cache: %w", err)
	}

	return nil
}
