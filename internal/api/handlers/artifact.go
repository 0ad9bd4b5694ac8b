package handlers

import (
	"net/http"

	"zone-matrix-service/internal/api/dto"
	"zone-matrix-service/internal/domain"
)

// ArtifactHandler exposes read-only views of the loaded matrix artifact.
type ArtifactHandler struct {
	Artifact *domain.Artifact
}

// Describe returns the artifact's provenance, units, and profile catalogue.
// The matrices themselves stay server-side; sessions serve them zone by
// zone, already colored.
func (h *ArtifactHandler) Describe(w http.ResponseWriter, r *http.Request) {
	art := h.Artifact

	res := dto.ArtifactResponse{
		Source:         art.Metadata.Source,
		ComputedAt:     art.Metadata.ComputedAt,
		Methodology:    art.Metadata.Methodology,
		DurationUnit:   art.Metadata.Units.Duration,
		DistanceUnit:   art.Metadata.Units.Distance,
		ZoneCount:      art.Size(),
		DefaultProfile: string(art.DefaultProfile),
		Profiles:       make([]dto.ProfileResponse, 0, len(art.Profiles)),
		NodePenalties:  make([]dto.NodePenaltyResponse, 0, len(art.Metadata.NodePenalties)),
	}

	// Display order, not map order.
	for _, key := range domain.ProfileKeys() {
		p, ok := art.Profiles[key]
		if !ok {
			continue
		}
		res.Profiles = append(res.Profiles, dto.ProfileResponse{
			Key:         string(key),
			Label:       p.Label,
			Hours:       p.Hours,
			Coefficient: p.Coefficient,
			SpeedRange:  p.SpeedRange,
			Traffic:     p.Traffic,
		})
	}
	for _, np := range art.Metadata.NodePenalties {
		res.NodePenalties = append(res.NodePenalties, dto.NodePenaltyResponse{Name: np.Name, Minutes: np.Minutes})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Zones returns the index-aligned zone name list. A zone's position here is
// the index every session operation addresses it by.
func (h *ArtifactHandler) Zones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ZonesResponse{Zones: h.Artifact.Communes})
}
