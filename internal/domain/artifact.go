package domain

import (
	"fmt"
	"time"
)

// Units documents the canonical units of every matrix in an artifact.
type Units struct {
	Duration string `json:"duration"`
	Distance string `json:"distance"`
}

// CanonicalUnits is the only unit set this system produces.
func CanonicalUnits() Units {
	return Units{Duration: "minutes", Distance: "kilometers"}
}

// SnappingDiagnostics summarizes how the resolver's road snapping went.
type SnappingDiagnostics struct {
	Snapped          int     `json:"snapped"`
	Fallbacks        int     `json:"fallbacks"`
	MaxOffsetMeters  float64 `json:"maxOffsetMeters"`
	MeanOffsetMeters float64 `json:"meanOffsetMeters"`
}

// NodePenalty names a known congestion point and a fixed additive delay in
// minutes. Penalties are descriptive artifact metadata only; they are never
// applied to OD aggregates.
type NodePenalty struct {
	Name    string  `json:"name"`
	Minutes float64 `json:"minutes"`
}

// ArtifactMetadata describes how an artifact was produced.
type ArtifactMetadata struct {
	Source              string               `json:"source"`
	ComputedAt          time.Time            `json:"computedAt"`
	Methodology         string               `json:"methodology"`
	Units               Units                `json:"units"`
	SnappingDiagnostics *SnappingDiagnostics `json:"snappingDiagnostics,omitempty"`
	BatchStats          *BatchStats          `json:"batchStats,omitempty"`
	NodePenalties       []NodePenalty        `json:"nodePenalties"`
}

// Artifact is the persisted output of one pipeline run: the index-aligned
// zone list, the base matrices, and the derived profile matrices. Artifacts
// are immutable once written; profiles are recomputed from the base, never
// edited in place.
type Artifact struct {
	Metadata       ArtifactMetadata        `json:"metadata"`
	Communes       []string                `json:"communes"`
	Distances      Matrix                  `json:"distances"`
	Durations      Matrix                  `json:"durations"`
	DefaultProfile ProfileKey              `json:"defaultProfile,omitempty"`
	Profiles       map[ProfileKey]*Profile `json:"profiles,omitempty"`
}

// Size returns the zone count N.
func (a *Artifact) Size() int { return len(a.Communes) }

// Validate checks the rectangularity invariants every consumer assumes:
// each matrix is exactly N×N for N communes, including profile matrices.
func (a *Artifact) Validate() error {
	n := a.Size()
	if n == 0 {
		return fmt.Errorf("artifact: no communes")
	}
	if err := checkSquare("distances", a.Distances, n); err != nil {
		return err
	}
	if err := checkSquare("durations", a.Durations, n); err != nil {
		return err
	}
	if a.DefaultProfile != "" && !a.DefaultProfile.Valid() {
		return fmt.Errorf("artifact: default profile %q: %w", a.DefaultProfile, ErrUnknownProfile)
	}
	for key, p := range a.Profiles {
		if !key.Valid() {
			return fmt.Errorf("artifact: profile %q: %w", key, ErrUnknownProfile)
		}
		if p == nil {
			return fmt.Errorf("artifact: profile %q is empty", key)
		}
		if err := checkSquare(fmt.Sprintf("profile %q durations", key), p.Durations, n); err != nil {
			return err
		}
	}
	return nil
}

// ActiveDurations returns the duration matrix the given profile key selects,
// falling back to the corrected base durations when the artifact carries no
// such profile.
func (a *Artifact) ActiveDurations(key ProfileKey) Matrix {
	if p, ok := a.Profiles[key]; ok && p != nil {
		return p.Durations
	}
	return a.Durations
}

func checkSquare(what string, m Matrix, n int) error {
	if m.Size() != n {
		return fmt.Errorf("artifact: %s has %d rows, want %d", what, m.Size(), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("artifact: %s row %d has %d cells, want %d", what, i, len(row), n)
		}
	}
	return nil
}
