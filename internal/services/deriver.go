package services

import (
	"fmt"
	"math"

	"zone-matrix-service/internal/domain"
)

// CongestionDeriver replaces a source's free-flow durations with ones
// derived from road distances at a capped average speed, then scales them
// into one duration matrix per congestion profile. Routers calibrated on
// uncongested networks report durations far below what the city actually
// drives; distance at a capped speed is the defensible baseline.
type CongestionDeriver struct {
	speedCapKmh float64
	specs       []domain.ProfileSpec
}

func NewCongestionDeriver(speedCapKmh float64, specs []domain.ProfileSpec) (*CongestionDeriver, error) {
	if speedCapKmh <= 0 {
		return nil, fmt.Errorf("speed cap must be positive, got %g", speedCapKmh)
	}
	seen := make(map[domain.ProfileKey]struct{}, len(specs))
	for _, spec := range specs {
		if !spec.Key.Valid() {
			return nil, fmt.Errorf("profile %q: %w", spec.Key, domain.ErrUnknownProfile)
		}
		if _, dup := seen[spec.Key]; dup {
			return nil, fmt.Errorf("duplicate profile %q", spec.Key)
		}
		seen[spec.Key] = struct{}{}
		if spec.Coefficient <= 0 {
			return nil, fmt.Errorf("profile %q coefficient must be positive, got %g", spec.Key, spec.Coefficient)
		}
	}
	return &CongestionDeriver{speedCapKmh: speedCapKmh, specs: specs}, nil
}

// SpeedCapKmh returns the capped average speed the base durations assume.
func (d *CongestionDeriver) SpeedCapKmh() float64 { return d.speedCapKmh }

// Derive computes the capped base durations (minutes, one decimal) and the
// per-profile durations (whole minutes). Null distance cells propagate to
// every derived matrix; diagonals are exactly zero.
func (d *CongestionDeriver) Derive(distances domain.Matrix) (domain.Matrix, map[domain.ProfileKey]*domain.Profile, error) {
	if !distances.IsSquare() {
		return nil, nil, fmt.Errorf("distance matrix is not square")
	}
	n := distances.Size()
	minutesPerKm := 60 / d.speedCapKmh

	base := domain.NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				base.Set(i, j, 0)
				continue
			}
			km, ok := distances.At(i, j)
			if !ok {
				continue
			}
			base.Set(i, j, domain.Round1(km*minutesPerKm))
		}
	}

	profiles := make(map[domain.ProfileKey]*domain.Profile, len(d.specs))
	for _, spec := range d.specs {
		m := domain.NewMatrix(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					m.Set(i, j, 0)
					continue
				}
				b, ok := base.At(i, j)
				if !ok {
					continue
				}
				m.Set(i, j, math.Round(b/spec.Coefficient))
			}
		}
		profiles[spec.Key] = &domain.Profile{
			Label:       spec.Label,
			Hours:       spec.Hours,
			Coefficient: spec.Coefficient,
			SpeedRange:  spec.SpeedRange,
			Traffic:     spec.Traffic,
			Durations:   m,
		}
	}

	return base, profiles, nil
}
