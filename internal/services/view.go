package services

import (
	"fmt"

	"zone-matrix-service/internal/domain"
)

// ViewSettings is the product palette for coloring destinations. Palette
// needs exactly one more color than thresholds: bucket i covers durations
// up to thresholds[i], the last color covers everything beyond.
type ViewSettings struct {
	ThresholdsMinutes []float64
	Palette           []string
	OriginColor       string
	NoDataColor       string
}

// ZoneStyle is one zone's paint instruction in a rendered view.
type ZoneStyle struct {
	Name string
	// Minutes is nil while idle and for no-data pairs.
	Minutes *float64
	Color   string
	Origin  bool
}

// HoverInfo is the ephemeral origin-to-zone detail shown on hover.
type HoverInfo struct {
	From        string
	To          string
	Profile     domain.ProfileKey
	Minutes     *float64
	Kilometers  *float64
	AvgSpeedKmh *float64
}

// MatrixView renders session state over an artifact. It never mutates
// either.
type MatrixView struct {
	settings ViewSettings
}

func NewMatrixView(s ViewSettings) (*MatrixView, error) {
	if len(s.Palette) != len(s.ThresholdsMinutes)+1 {
		return nil, fmt.Errorf("palette needs %d colors for %d thresholds, got %d",
			len(s.ThresholdsMinutes)+1, len(s.ThresholdsMinutes), len(s.Palette))
	}
	prev := 0.0
	for i, th := range s.ThresholdsMinutes {
		if th <= prev {
			return nil, fmt.Errorf("thresholds must be strictly increasing and positive (index %d)", i)
		}
		prev = th
	}
	if s.OriginColor == "" || s.NoDataColor == "" {
		return nil, fmt.Errorf("origin and no-data colors must be set")
	}
	return &MatrixView{settings: s}, nil
}

// Render builds the style of every zone for the session's current state.
// Idle sessions paint everything neutral; with an origin selected, every
// destination is bucketed under the active profile, the origin gets the
// origin sentinel, and no-data pairs get the no-data sentinel.
func (v *MatrixView) Render(art *domain.Artifact, s *domain.Session) []ZoneStyle {
	styles := make([]ZoneStyle, art.Size())

	if s.State != domain.SessionOriginSelected {
		for i, name := range art.Communes {
			styles[i] = ZoneStyle{Name: name, Color: v.settings.NoDataColor}
		}
		return styles
	}

	durations := art.ActiveDurations(s.Profile)
	for j, name := range art.Communes {
		if j == s.OriginIndex {
			zero := 0.0
			styles[j] = ZoneStyle{Name: name, Minutes: &zero, Color: v.settings.OriginColor, Origin: true}
			continue
		}
		m, ok := durations.At(s.OriginIndex, j)
		if !ok {
			styles[j] = ZoneStyle{Name: name, Color: v.settings.NoDataColor}
			continue
		}
		minutes := m
		styles[j] = ZoneStyle{Name: name, Minutes: &minutes, Color: v.bucketColor(m)}
	}
	return styles
}

// Hover answers the origin-to-zone j detail under the active profile.
// Never mutates the session.
func (v *MatrixView) Hover(art *domain.Artifact, s *domain.Session, j int) (HoverInfo, error) {
	if s.State != domain.SessionOriginSelected {
		return HoverInfo{}, domain.ErrNoOriginSelected
	}
	if j < 0 || j >= art.Size() {
		return HoverInfo{}, domain.ErrZoneIndexOutOfRange
	}

	info := HoverInfo{
		From:    art.Communes[s.OriginIndex],
		To:      art.Communes[j],
		Profile: s.Profile,
	}

	if m, ok := art.ActiveDurations(s.Profile).At(s.OriginIndex, j); ok {
		info.Minutes = &m
	}
	if km, ok := art.Distances.At(s.OriginIndex, j); ok {
		info.Kilometers = &km
	}
	// Average speed only makes sense with both values and a nonzero time.
	if info.Minutes != nil && info.Kilometers != nil && *info.Minutes > 0 {
		speed := *info.Kilometers / (*info.Minutes / 60)
		info.AvgSpeedKmh = &speed
	}

	return info, nil
}

func (v *MatrixView) bucketColor(minutes float64) string {
	for i, th := range v.settings.ThresholdsMinutes {
		if minutes <= th {
			return v.settings.Palette[i]
		}
	}
	return v.settings.Palette[len(v.settings.Palette)-1]
}
