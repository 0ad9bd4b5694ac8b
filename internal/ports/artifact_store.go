package ports

import (
	"context"

	"zone-matrix-service/internal/domain"
)

// ArtifactStore persists the serving artifact produced by a matrix run.
type ArtifactStore interface {
	Save(ctx context.Context, art *domain.Artifact) error
	Load(ctx context.Context) (*domain.Artifact, error)
}
