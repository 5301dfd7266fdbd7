// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns resolved events into a self-contained interactive
// HTML map. The page pulls Leaflet and its plugins from CDNs; the event
// data travels embedded in the document, so the result works from file://.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/jcodagnone/efemapa/pipeline"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// MapData is everything the map page needs.
type MapData struct {
	// Title goes in the <title> and the overlay box.
	Title string
	// Description is the overlay box's subtitle line.
	Description string
	// Cluster groups nearby markers when true.
	Cluster bool
	// Events are the markers. An empty slice still renders a valid page.
	Events []pipeline.ResolvedEvent
	// HeatPoints enable the heat layer when non-empty.
	HeatPoints []HeatPoint
}

// payload is the JSON document handed to the page's script. Marker popups
// are built from it on the client with DOM APIs, so event text and link
// titles need no escaping beyond what encoding/json already applies.
type payload struct {
	Cluster    bool                     `json:"cluster"`
	Events     []pipeline.ResolvedEvent `json:"events"`
	HeatPoints []HeatPoint              `json:"heat_points"`
}

type templateData struct {
	Title       string
	Description string
	Payload     template.JS
}

// WriteMap renders the map page for data into w.
func (data MapData) WriteMap(w io.Writer) error {
	events := data.Events
	if events == nil {
		events = []pipeline.ResolvedEvent{}
	}

	heat := data.HeatPoints
	if heat == nil {
		heat = []HeatPoint{}
	}

	// encoding/json escapes <, > and & by default, which keeps the
	// embedded document safe inside a <script> element.
	encoded, err := json.Marshal(payload{
		Cluster:    data.Cluster,
		Events:     events,
		HeatPoints: heat,
	})
	if err != nil {
		return fmt.Errorf("error encoding map payload: %w", err)
	}

	if err := mapTemplate.Execute(w, templateData{
		Title:       data.Title,
		Description: data.Description,
		Payload:     template.JS(encoded),
	}); err != nil {
		return fmt.Errorf("error rendering map page: %w", err)
	}

	return nil
}

// SaveMap writes the map page to path, creating parent directories as
// needed.
func (data MapData) SaveMap(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating map file %s: %w", path, err)
	}

	if err := data.WriteMap(file); err != nil {
		file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing map file %s: %w", path, err)
	}

	return nil
}
