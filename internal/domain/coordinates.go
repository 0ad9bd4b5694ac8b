package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GoogleParam renders the coordinate in the "lat,lng" order the commercial
// matrix API expects.
func (c Coordinates) GoogleParam() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// OSRMParam renders the coordinate in the "lon,lat" order OSRM-compatible
// engines expect.
func (c Coordinates) OSRMParam() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lng, c.Lat)
}
