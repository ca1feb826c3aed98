// Package address resolves billing addresses against an external geocoding
// service. It is the only part of the verification pipeline with a real
// external dependency and a transient failure surface.
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	geocodeUserAgent    = "checkout-orchestrator"
)

// Geocoder looks up a free-form address query. found reports whether the
// service knows the address; err is reserved for transport or protocol
// faults, a definitive "not found" is (false, nil).
type Geocoder interface {
	Geocode(ctx context.Context, query string) (found bool, err error)
}

// NominatimClient is a Geocoder over the Nominatim search API.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimClient creates a client for the given Nominatim endpoint.
// An empty baseURL selects the public openstreetmap.org instance.
func NewNominatimClient(baseURL string) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	return &NominatimClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *NominatimClient) Geocode(ctx context.Context, query string) (bool, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", geocodeUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("geocode service returned status %s", resp.Status)
	}

	var results []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return false, fmt.Errorf("decode geocode response: %w", err)
	}
	return len(results) > 0, nil
}
