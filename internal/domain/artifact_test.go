package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validArtifact() *Artifact {
	base := NewMatrix(2)
	base.ForceZeroDiagonal()
	base.Set(0, 1, 30)
	base.Set(1, 0, 28)

	peak := base.Clone()
	peak.Set(0, 1, 60)

	return &Artifact{
		Metadata: ArtifactMetadata{
			Source:        "osrm",
			ComputedAt:    time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
			Methodology:   "table service, capped at 40 km/h",
			Units:         CanonicalUnits(),
			NodePenalties: []NodePenalty{},
		},
		Communes:       []string{"Centre", "Nord"},
		Distances:      base.Clone(),
		Durations:      base,
		DefaultProfile: ProfileMidday,
		Profiles: map[ProfileKey]*Profile{
			ProfileMidday:      {Label: "Midday", Coefficient: 0.75, Durations: base.Clone()},
			ProfileEveningPeak: {Label: "Evening peak", Coefficient: 0.5, Durations: peak},
		},
	}
}

func TestArtifactValidate(t *testing.T) {
	require.NoError(t, validArtifact().Validate())
}

func TestArtifactValidateCatchesRaggedMatrices(t *testing.T) {
	a := validArtifact()
	a.Durations[1] = a.Durations[1][:1]
	require.Error(t, a.Validate())

	a = validArtifact()
	a.Profiles[ProfileMidday].Durations = NewMatrix(3)
	require.Error(t, a.Validate())

	a = validArtifact()
	a.Communes = nil
	require.Error(t, a.Validate())

	a = validArtifact()
	a.Profiles[ProfileKey("rush")] = a.Profiles[ProfileMidday]
	require.Error(t, a.Validate())
}

func TestActiveDurationsFallsBackToBase(t *testing.T) {
	a := validArtifact()

	peak := a.ActiveDurations(ProfileEveningPeak)
	v, ok := peak.At(0, 1)
	require.True(t, ok)
	require.Equal(t, 60.0, v)

	// Night is not present in this artifact; base durations serve.
	base := a.ActiveDurations(ProfileNight)
	v, ok = base.At(0, 1)
	require.True(t, ok)
	require.Equal(t, 30.0, v)
}
