// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the tool's configuration: defaults, then an
// optional JSON file, then EFEMAPA_* environment variables. A .env file
// in the working directory is honored through godotenv.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every user-tunable knob. Zero values are never meaningful
// on their own; start from Default and layer on top.
type Config struct {
	// OutputPath is where the rendered HTML map lands.
	OutputPath string `json:"output_path" validate:"required"`
	// MaxEvents caps how many events are sampled from the fetched page.
	MaxEvents int `json:"max_events" validate:"gt=0"`
	// AutoOpen opens the rendered map in the default browser.
	AutoOpen bool `json:"auto_open"`
	// Language selects the Wikipedia edition, e.g. "en" or "tr".
	Language string `json:"language" validate:"required,min=2"`
	// Cluster groups nearby markers on the map.
	Cluster bool `json:"use_marker_cluster"`
	// Heatmap adds a heat layer alongside the markers.
	Heatmap bool `json:"use_heatmap"`
	// CacheLocations persists geocoding results between runs.
	CacheLocations bool `json:"cache_locations"`
	// CachePath is the location cache file. Empty means a cache/
	// directory next to OutputPath.
	CachePath string `json:"cache_path"`
	// Geocoder selects the provider.
	Geocoder string `json:"geocoder" validate:"oneof=nominatim google"`
	// GoogleAPIKey is required when Geocoder is "google".
	GoogleAPIKey string `json:"google_api_key" validate:"required_if=Geocoder google"`
	// NominatimURL overrides the public Nominatim instance.
	NominatimURL string `json:"nominatim_url" validate:"omitempty,url"`
	// RateLimitMs is the minimum gap between geocoding lookups.
	RateLimitMs int `json:"rate_limit_ms" validate:"gte=0"`
	// TimeoutSeconds bounds each geocoding request.
	TimeoutSeconds int `json:"timeout_seconds" validate:"gt=0"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		OutputPath:     "map_of_efemerides.html",
		MaxEvents:      10,
		AutoOpen:       true,
		Language:       "en",
		Cluster:        true,
		Heatmap:        false,
		CacheLocations: true,
		Geocoder:       "nominatim",
		RateLimitMs:    1000,
		TimeoutSeconds: 10,
	}
}

// EffectiveCachePath resolves where the location cache lives, deriving it
// from OutputPath when CachePath is unset.
func (c Config) EffectiveCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}

	return filepath.Join(filepath.Dir(c.OutputPath), "cache", "location_cache.json")
}

// Load builds the effective configuration. path may be empty, in which
// case only defaults and the environment apply. A missing config file at
// an explicitly given path is an error; malformed JSON is too.
func Load(path string) (Config, error) {
	// A .env next to the invocation is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}

		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("EFEMAPA_OUTPUT_PATH"); ok {
		c.OutputPath = v
	}

	if v, ok := os.LookupEnv("EFEMAPA_LANGUAGE"); ok {
		c.Language = v
	}

	if v, ok := os.LookupEnv("EFEMAPA_GEOCODER"); ok {
		c.Geocoder = v
	}

	if v, ok := os.LookupEnv("EFEMAPA_GOOGLE_API_KEY"); ok {
		c.GoogleAPIKey = v
	}

	if v, ok := os.LookupEnv("EFEMAPA_NOMINATIM_URL"); ok {
		c.NominatimURL = v
	}

	if v, ok := os.LookupEnv("EFEMAPA_CACHE_PATH"); ok {
		c.CachePath = v
	}

	for _, entry := range []struct {
		name   string
		target *int
	}{
		{"EFEMAPA_MAX_EVENTS", &c.MaxEvents},
		{"EFEMAPA_RATE_LIMIT_MS", &c.RateLimitMs},
		{"EFEMAPA_TIMEOUT_SECONDS", &c.TimeoutSeconds},
	} {
		v, ok := os.LookupEnv(entry.name)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("error parsing %s=%q: %w", entry.name, v, err)
		}

		*entry.target = n
	}

	return nil
}
