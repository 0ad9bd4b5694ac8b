package domain

// Zone is one administrative unit of the study area.
//
// Zones are produced once per resolver run and are immutable afterwards.
// Their position in the resolver's output slice is the authoritative
// row/column index for every matrix derived from them.
type Zone struct {
	// Name uniquely identifies the zone and is stable across runs.
	Name string `json:"name"`
	// Centroid is the area-weighted centroid of the zone polygon.
	Centroid Coordinates `json:"centroid"`
	// SnappedPoint is the centroid projected onto the nearest routable
	// road segment. Equal to Centroid when snapping degraded.
	SnappedPoint Coordinates `json:"snappedPoint"`
	// SnapOffsetMeters is the haversine distance between Centroid and
	// SnappedPoint. Zero when snapping degraded to the raw centroid.
	SnapOffsetMeters float64 `json:"snapOffsetMeters"`
}

// ZoneNames returns the index-aligned name list used by matrix artifacts.
func ZoneNames(zones []Zone) []string {
	names := make([]string, 0, len(zones))
	for _, z := range zones {
		names = append(names, z.Name)
	}
	return names
}

// SnappedPoints returns the index-aligned reference points matrix sources
// consume.
func SnappedPoints(zones []Zone) []Coordinates {
	points := make([]Coordinates, 0, len(zones))
	for _, z := range zones {
		points = append(points, z.SnappedPoint)
	}
	return points
}
