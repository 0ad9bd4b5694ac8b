package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zone-matrix-service/internal/domain"
)

func testSpecs() []domain.ProfileSpec {
	return []domain.ProfileSpec{
		{Key: domain.ProfileNight, Label: "Night", Hours: "22:00-06:00", Coefficient: 1.0},
		{Key: domain.ProfileEveningPeak, Label: "Evening peak", Hours: "17:00-20:00", Coefficient: 0.25},
	}
}

func TestDeriveBaseDurationAtCappedSpeed(t *testing.T) {
	d, err := NewCongestionDeriver(40, testSpecs())
	require.NoError(t, err)

	distances := domain.NewMatrix(2)
	distances.ForceZeroDiagonal()
	distances.Set(0, 1, 20)
	distances.Set(1, 0, 10)

	base, profiles, err := d.Derive(distances)
	require.NoError(t, err)

	// 20 km at 40 km/h is 30 minutes.
	v, ok := base.At(0, 1)
	require.True(t, ok)
	require.Equal(t, 30.0, v)

	v, ok = base.At(1, 0)
	require.True(t, ok)
	require.Equal(t, 15.0, v)

	// Coefficient 1.0 keeps the base; 0.25 quadruples it.
	night, ok := profiles[domain.ProfileNight].Durations.At(0, 1)
	require.True(t, ok)
	require.Equal(t, 30.0, night)

	peak, ok := profiles[domain.ProfileEveningPeak].Durations.At(0, 1)
	require.True(t, ok)
	require.Equal(t, 120.0, peak)
}

func TestDeriveForcesZeroDiagonalEverywhere(t *testing.T) {
	d, err := NewCongestionDeriver(40, testSpecs())
	require.NoError(t, err)

	distances := domain.NewMatrix(3)
	// Engines sometimes report a nonzero i==i distance; it must not leak.
	distances.Set(0, 0, 55)
	distances.Set(1, 1, 7)
	distances.Set(0, 1, 20)
	distances.Set(1, 0, 20)
	distances.Set(0, 2, 8)
	distances.Set(2, 0, 8)
	distances.Set(1, 2, 4)
	distances.Set(2, 1, 4)

	base, profiles, err := d.Derive(distances)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, ok := base.At(i, i)
		require.True(t, ok)
		require.Zero(t, v, "base diagonal at %d", i)
		for key, p := range profiles {
			v, ok := p.Durations.At(i, i)
			require.True(t, ok)
			require.Zero(t, v, "profile %s diagonal at %d", key, i)
		}
	}
}

func TestDerivePropagatesMissingPairs(t *testing.T) {
	d, err := NewCongestionDeriver(40, testSpecs())
	require.NoError(t, err)

	distances := domain.NewMatrix(2)
	distances.ForceZeroDiagonal()
	distances.Set(0, 1, 12.5)
	// (1,0) stays nil: no route found.

	base, profiles, err := d.Derive(distances)
	require.NoError(t, err)

	_, ok := base.At(1, 0)
	require.False(t, ok, "missing distance must stay missing in the base")
	for key, p := range profiles {
		_, ok := p.Durations.At(1, 0)
		require.False(t, ok, "missing distance must stay missing in profile %s", key)
	}
}

func TestCappedSpeedNeverFasterThanFreeFlow(t *testing.T) {
	// The engine estimated these distances at free-flow speeds at or above
	// the cap; re-expressing them at the cap can only lengthen the trip.
	const freeFlowKmh = 60.0
	d, err := NewCongestionDeriver(40, testSpecs())
	require.NoError(t, err)

	kms := []float64{0.4, 1.1, 3.7, 12, 25.1, 48.9}
	n := 3
	distances := domain.NewMatrix(n)
	distances.ForceZeroDiagonal()
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			distances.Set(i, j, kms[k%len(kms)])
			k++
		}
	}

	base, _, err := d.Derive(distances)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			km, _ := distances.At(i, j)
			freeFlowMinutes := km / freeFlowKmh * 60
			capped, ok := base.At(i, j)
			require.True(t, ok)
			require.GreaterOrEqual(t, capped, freeFlowMinutes,
				"pair (%d,%d) km=%g", i, j, km)
		}
	}
}

func TestNewCongestionDeriverValidation(t *testing.T) {
	_, err := NewCongestionDeriver(0, testSpecs())
	require.Error(t, err)

	_, err = NewCongestionDeriver(-40, testSpecs())
	require.Error(t, err)

	_, err = NewCongestionDeriver(40, []domain.ProfileSpec{
		{Key: domain.ProfileKey("rush"), Coefficient: 0.5},
	})
	require.ErrorIs(t, err, domain.ErrUnknownProfile)

	_, err = NewCongestionDeriver(40, []domain.ProfileSpec{
		{Key: domain.ProfileNight, Coefficient: 0},
	})
	require.Error(t, err)

	_, err = NewCongestionDeriver(40, []domain.ProfileSpec{
		{Key: domain.ProfileNight, Coefficient: 1},
		{Key: domain.ProfileNight, Coefficient: 0.5},
	})
	require.Error(t, err)
}

func TestDeriveRejectsRaggedMatrix(t *testing.T) {
	d, err := NewCongestionDeriver(40, testSpecs())
	require.NoError(t, err)

	ragged := domain.Matrix{make([]*float64, 2), make([]*float64, 1)}
	_, _, err = d.Derive(ragged)
	require.Error(t, err)
}
