// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/efemapa/spatial"
)

// DefaultNominatimURL is the public OSM Nominatim endpoint. Its usage policy
// is the reason the resolver runs one lookup at a time behind the limiter.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// DefaultTimeout bounds a single geocoding lookup.
const DefaultTimeout = 10 * time.Second

const defaultUserAgent = "efemapa/1.0 (github.com/jcodagnone/efemapa)"

// Nominatim geocodes place names against an OSM Nominatim instance.
type Nominatim struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NominatimOption customizes a Nominatim client.
type NominatimOption func(*Nominatim)

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(baseURL string) NominatimOption {
	return func(n *Nominatim) {
		if strings.TrimSpace(baseURL) != "" {
			n.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) NominatimOption {
	return func(n *Nominatim) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// WithUserAgent overrides the User-Agent header. Nominatim's usage policy
// requires an identifying agent.
func WithUserAgent(userAgent string) NominatimOption {
	return func(n *Nominatim) {
		if strings.TrimSpace(userAgent) != "" {
			n.userAgent = userAgent
		}
	}
}

// NewNominatim creates a Nominatim client with a bounded request timeout.
func NewNominatim(opts ...NominatimOption) *Nominatim {
	n := &Nominatim{
		baseURL:    DefaultNominatimURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Geocode resolves a single place name. A place that yields no match returns
// Found=false with a nil error; transport and decoding problems are errors.
func (n *Nominatim) Geocode(ctx context.Context, place string) (Result, error) {
	if strings.TrimSpace(place) == "" {
		return Result{}, nil
	}

	endpoint := strings.TrimRight(n.baseURL, "/") + "/search"
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", place)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building nominatim request: %w", err)
	}

	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, ClassifyHTTPError(resp.StatusCode)
	}

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Result{}, fmt.Errorf("decoding nominatim response: %w", err)
	}

	if len(results) == 0 {
		return Result{}, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}

	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}

	return Result{
		Point:       spatial.Point{Lat: lat, Lng: lng},
		DisplayName: results[0].DisplayName,
		Provider:    "nominatim",
		Found:       true,
	}, nil
}
