package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go-rentmart/models"
)

// GeocodeService resolves free-text queries to coordinates and coordinates
// back to addresses against a Nominatim-compatible HTTP endpoint.
type GeocodeService struct {
	baseURL string
	client  *http.Client
}

// NewGeocodeService reads GEOCODER_URL from the environment
func NewGeocodeService() *GeocodeService {
	baseURL := os.Getenv("GEOCODER_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return NewGeocodeServiceWithURL(baseURL)
}

// NewGeocodeServiceWithURL builds a service against an explicit endpoint
func NewGeocodeServiceWithURL(baseURL string) *GeocodeService {
	return &GeocodeService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text query to at most one location. A query that
// matches nothing returns (nil, nil).
func (gs *GeocodeService) Geocode(ctx context.Context, query string) (*models.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var places []nominatimPlace
	if err := gs.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}

	return placeToLocation(places[0])
}

// ReverseGeocode resolves a point to its address
func (gs *GeocodeService) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Location, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")

	var place nominatimPlace
	if err := gs.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}
	if place.DisplayName == "" {
		return nil, nil
	}

	return &models.Location{Lat: lat, Lng: lng, Address: place.DisplayName}, nil
}

func (gs *GeocodeService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gs.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "go-rentmart")

	resp, err := gs.client.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func placeToLocation(p nominatimPlace) (*models.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned invalid latitude %q", p.Lat)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned invalid longitude %q", p.Lon)
	}
	return &models.Location{Lat: lat, Lng: lng, Address: p.DisplayName}, nil
}
