package domain

import "math"

// Matrix is an N×N grid of optional values addressed as [origin][destination].
//
// A nil cell means "no route found" for that OD pair and must propagate
// through every derivation; it is never coerced to 0. The diagonal of a
// finished matrix is always exactly 0, whatever a routing engine computed
// for i==i.
type Matrix [][]*float64

// NewMatrix allocates an n×n matrix with every cell nil.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]*float64, n)
	}
	return m
}

// Size returns the row count.
func (m Matrix) Size() int { return len(m) }

// IsSquare reports whether every row has exactly len(m) cells.
func (m Matrix) IsSquare() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

// Set stores v at (i, j). Out-of-range indexes are a programmer error and
// panic like any slice access.
func (m Matrix) Set(i, j int, v float64) {
	val := v
	m[i][j] = &val
}

// At returns the value at (i, j) and whether the cell holds data.
func (m Matrix) At(i, j int) (float64, bool) {
	if m[i][j] == nil {
		return 0, false
	}
	return *m[i][j], true
}

// ForceZeroDiagonal overwrites every i==i cell with exactly 0, regardless of
// any computed value.
func (m Matrix) ForceZeroDiagonal() {
	for i := range m {
		m.Set(i, i, 0)
	}
}

// Clone returns a deep copy; cell pointers are not shared.
func (m Matrix) Clone() Matrix {
	out := NewMatrix(len(m))
	for i, row := range m {
		for j, cell := range row {
			if cell != nil {
				out.Set(i, j, *cell)
			}
		}
	}
	return out
}

// TravelMatrix pairs the two canonical-unit matrices a routing source
// produces: distances in kilometers (one decimal) and durations in whole
// minutes.
type TravelMatrix struct {
	Distances Matrix
	Durations Matrix
}

// NewTravelMatrix allocates both grids at n×n.
func NewTravelMatrix(n int) *TravelMatrix {
	return &TravelMatrix{Distances: NewMatrix(n), Durations: NewMatrix(n)}
}

// Round1 rounds to one decimal place, the canonical precision for
// kilometers and corrected base durations.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MinutesFromSeconds converts engine seconds to the nearest whole minute.
func MinutesFromSeconds(sec float64) float64 {
	return math.Round(sec / 60)
}

// KilometersFromMeters converts engine meters to kilometers at one decimal.
func KilometersFromMeters(meters float64) float64 {
	return Round1(meters / 1000)
}
