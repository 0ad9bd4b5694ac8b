package ports

import (
	"context"

	"zone-matrix-service/internal/domain"
)

// MatrixSource computes the full NxN travel matrix for a set of points.
// Implementations return durations in minutes and distances in kilometers,
// with nil cells where the source could not produce a value.
type MatrixSource interface {
	// Name identifies the source in artifact metadata and logs.
	Name() string
	FullMatrix(ctx context.Context, points []domain.Coordinates) (*domain.TravelMatrix, error)
}

// BatchStatsReporter is an optional MatrixSource capability. Sources that
// split the matrix into paid batches expose the stats of their last run.
type BatchStatsReporter interface {
	LastRunStats() *domain.BatchStats
}
