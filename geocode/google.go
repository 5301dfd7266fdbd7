// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jcodagnone/efemapa/spatial"
)

const defaultGoogleMapsURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder uses the Google Maps Geocoding API. It is the opt-in
// alternative for users who have an API key and want better hit rates on
// ambiguous place names.
type GoogleMapsGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// GoogleOption customizes a GoogleMapsGeocoder.
type GoogleOption func(*GoogleMapsGeocoder)

// WithGoogleBaseURL points the geocoder at a different endpoint.
func WithGoogleBaseURL(baseURL string) GoogleOption {
	return func(g *GoogleMapsGeocoder) {
		if strings.TrimSpace(baseURL) != "" {
			g.baseURL = baseURL
		}
	}
}

// WithGoogleHTTPClient replaces the underlying HTTP client.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(g *GoogleMapsGeocoder) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey string, opts ...GoogleOption) *GoogleMapsGeocoder {
	g := &GoogleMapsGeocoder{
		apiKey:  apiKey,
		baseURL: defaultGoogleMapsURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
}

// Geocode resolves a single place name. ZERO_RESULTS returns Found=false
// with a nil error; every other non-OK status is an error.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, place string) (Result, error) {
	if strings.TrimSpace(place) == "" {
		return Result{}, nil
	}

	params := url.Values{}
	params.Set("address", place)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, ClassifyHTTPError(resp.StatusCode)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return Result{}, fmt.Errorf("decoding response: %w", err)
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Result{}, nil
	case "OVER_QUERY_LIMIT":
		return Result{}, &GeocodingError{
			Type:    ErrorTypeQuotaExceeded,
			Message: "google maps status: OVER_QUERY_LIMIT",
		}
	default:
		return Result{}, fmt.Errorf("google maps status: %s", gmResp.Status)
	}

	if len(gmResp.Results) == 0 {
		return Result{}, nil
	}

	result := gmResp.Results[0]

	return Result{
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		DisplayName: result.FormattedAddress,
		Provider:    "google_maps",
		Found:       true,
	}, nil
}
