package ports

import (
	"context"

	"zone-matrix-service/internal/domain"
)

// SnapResult is the nearest drivable point for a queried coordinate.
type SnapResult struct {
	Point domain.Coordinates
	// Name is the road name at the snapped point, when the router knows it.
	Name string
}

// RoadSnapper moves an arbitrary coordinate onto the routable road network.
type RoadSnapper interface {
	Nearest(ctx context.Context, pt domain.Coordinates) (SnapResult, error)
}
