package services

import "fmt"

// MockGeocoder is a mock implementation of GeocoderInterface for testing
type MockGeocoder struct {
	// Coordinates maps addresses to fixed results
	Coordinates map[string][2]float64
	// Fail forces every lookup to report an error
	Fail bool
	// Calls records every address looked up
	Calls []string
}

// NewMockGeocoder creates a new mock geocoder
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		Coordinates: make(map[string][2]float64),
	}
}

// SetAsMockForTesting sets this mock as the global geocoder instance for testing
func (m *MockGeocoder) SetAsMockForTesting() {
	SetGeocoder(m)
}

// Geocode returns the configured coordinates for the address
func (m *MockGeocoder) Geocode(address string) (float64, float64, error) {
	m.Calls = append(m.Calls, address)
	if m.Fail {
		return 0, 0, fmt.Errorf("mock geocoder failure")
	}
	if coords, ok := m.Coordinates[address]; ok {
		return coords[0], coords[1], nil
	}
	return 0, 0, fmt.Errorf("no geocoding results for %q", address)
}
