package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/obs"
	"zone-matrix-service/internal/ports"
)

// Pipeline runs one full matrix computation: resolve and snap the zones,
// fetch the raw matrix from the configured source, derive the capped base
// durations and the per-profile matrices, assemble the artifact, and
// persist it. Each step is fatal on error; no partial artifact is written.
type Pipeline struct {
	Resolver  *ZoneResolver
	Source    ports.MatrixSource
	Deriver   *CongestionDeriver
	Artifacts ports.ArtifactStore

	DefaultProfile domain.ProfileKey
	// Penalties are carried into artifact metadata only; they are never
	// applied to OD durations.
	Penalties []domain.NodePenalty

	now func() time.Time
}

func NewPipeline(
	resolver *ZoneResolver,
	source ports.MatrixSource,
	deriver *CongestionDeriver,
	artifacts ports.ArtifactStore,
	defaultProfile domain.ProfileKey,
	penalties []domain.NodePenalty,
) *Pipeline {
	return &Pipeline{
		Resolver:       resolver,
		Source:         source,
		Deriver:        deriver,
		Artifacts:      artifacts,
		DefaultProfile: defaultProfile,
		Penalties:      penalties,
		now:            time.Now,
	}
}

// Run executes the pipeline over the raw zones GeoJSON and returns the
// persisted artifact.
func (p *Pipeline) Run(ctx context.Context, rawZones []byte) (_ *domain.Artifact, err error) {
	defer obs.Time(ctx, "pipeline.Run")(&err)

	zones, diag, err := p.Resolver.Resolve(ctx, rawZones)
	if err != nil {
		return nil, fmt.Errorf("resolve zones: %w", err)
	}
	log.Printf("zones resolved count=%d snapped=%d fallbacks=%d max_offset_m=%.0f",
		len(zones), diag.Snapped, diag.Fallbacks, diag.MaxOffsetMeters)

	tm, err := p.Source.FullMatrix(ctx, domain.SnappedPoints(zones))
	if err != nil {
		return nil, fmt.Errorf("fetch matrix from %s: %w", p.Source.Name(), err)
	}

	base, profiles, err := p.Deriver.Derive(tm.Distances)
	if err != nil {
		return nil, fmt.Errorf("derive profiles: %w", err)
	}

	penalties := p.Penalties
	if penalties == nil {
		penalties = []domain.NodePenalty{}
	}

	art := &domain.Artifact{
		Metadata: domain.ArtifactMetadata{
			Source:     p.Source.Name(),
			ComputedAt: p.now(),
			Methodology: fmt.Sprintf(
				"durations derived from road distances at a %g km/h capped average speed, scaled per congestion profile; engine free-flow durations are not used",
				p.Deriver.SpeedCapKmh(),
			),
			Units:               domain.CanonicalUnits(),
			SnappingDiagnostics: diag,
			NodePenalties:       penalties,
		},
		Communes:       domain.ZoneNames(zones),
		Distances:      tm.Distances,
		Durations:      base,
		DefaultProfile: p.DefaultProfile,
		Profiles:       profiles,
	}
	if reporter, ok := p.Source.(ports.BatchStatsReporter); ok {
		art.Metadata.BatchStats = reporter.LastRunStats()
	}

	if err := p.Artifacts.Save(ctx, art); err != nil {
		return nil, fmt.Errorf("persist artifact: %w", err)
	}

	log.Printf("artifact persisted source=%s zones=%d profiles=%d", art.Metadata.Source, art.Size(), len(art.Profiles))
	return art, nil
}
