package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Point is a geographic coordinate pair
type Point struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a street address to coordinates. A nil Point with a nil
// error means no match was found.
type Geocoder interface {
	Geocode(ctx context.Context, address, city string) (*Point, error)
}

// Nominatim geocodes through the OpenStreetMap Nominatim API
type Nominatim struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewNominatim creates a geocoder against the public Nominatim endpoint
func NewNominatim(userAgent string) *Nominatim {
	return &Nominatim{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   "https://nominatim.openstreetmap.org",
		userAgent: userAgent,
	}
}

// Geocode looks up the first match for "address, city"
func (n *Nominatim) Geocode(ctx context.Context, address, city string) (*Point, error) {
	q := address
	if city != "" {
		q = address + ", " + city
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed: status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in geocoding response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in geocoding response: %w", err)
	}

	return &Point{Latitude: lat, Longitude: lon}, nil
}
