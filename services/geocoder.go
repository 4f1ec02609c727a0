package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hermes-oms/hermes/config"
)

// GeocoderInterface defines the interface for address lookups
type GeocoderInterface interface {
	Geocode(address string) (lat float64, lon float64, err error)
}

// geocodeResult represents one match from the geocoding service.
// Nominatim returns coordinates as strings.
type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocoder resolves free-text addresses against a Nominatim-style
// geocoding endpoint
type Geocoder struct {
	baseURL    string
	httpClient *http.Client
}

var geocoderInstance GeocoderInterface

// InitGeocoder initializes the geocoder service from configuration
func InitGeocoder(cfg *config.Config) GeocoderInterface {
	geocoderInstance = NewGeocoder(cfg.GeocoderURL)
	return geocoderInstance
}

// GetGeocoder returns the initialized geocoder instance
func GetGeocoder() GeocoderInterface {
	return geocoderInstance
}

// SetGeocoder sets the geocoder instance (primarily for testing)
func SetGeocoder(g GeocoderInterface) {
	geocoderInstance = g
}

// NewGeocoder creates a geocoder against the given base URL
func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Geocode issues a single synchronous lookup for the address and returns
// the first match's coordinates. A transport error, non-200 response,
// empty result set, or unparseable coordinate is reported as an error;
// callers are expected to log it and fall back to (0, 0). No retry.
func (g *Geocoder) Geocode(address string) (float64, float64, error) {
	lookupURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequest("GET", lookupURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	// Nominatim's usage policy requires an identifying user agent
	req.Header.Set("User-Agent", "hermes-oms/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to call geocoding endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding endpoint returned status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return lat, lon, nil
}
