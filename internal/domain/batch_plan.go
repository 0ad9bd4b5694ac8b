package domain

import (
	"fmt"
	"math"
)

// IndexRange is a half-open [Start, End) span of matrix indexes.
type IndexRange struct {
	Start int
	End   int
}

// Len returns the number of indexes covered.
func (r IndexRange) Len() int { return r.End - r.Start }

// BatchRect is one sub-request of a partitioned matrix run: a block of
// origin rows crossed with a block of destination columns.
type BatchRect struct {
	Origins      IndexRange
	Destinations IndexRange
}

// Elements returns how many OD pairs the rectangle bills for.
func (b BatchRect) Elements() int {
	return b.Origins.Len() * b.Destinations.Len()
}

// BatchPlan partitions the full N×N index space into rectangles that each
// respect a per-call element ceiling. The union of rectangles covers every
// (i, j) pair exactly once: no gaps, no overlaps.
//
// A plan is pure data; building one issues no network calls, which is what
// makes dry-run previews possible.
type BatchPlan struct {
	N              int
	Chunk          int
	ElementCeiling int
	Rects          []BatchRect
}

// TotalElements returns the billed element count of the whole plan, always
// exactly N².
func (p BatchPlan) TotalElements() int { return p.N * p.N }

// PlanBatches partitions an n×n request under the given per-call element
// ceiling. The chunk size B is the largest value with B×B ≤ ceiling, so
// every rectangle is at most B×B.
func PlanBatches(n, elementCeiling int) (BatchPlan, error) {
	if n <= 0 {
		return BatchPlan{}, fmt.Errorf("plan batches: zone count must be positive, got %d", n)
	}
	if elementCeiling < 1 {
		return BatchPlan{}, fmt.Errorf("plan batches: element ceiling must be at least 1, got %d", elementCeiling)
	}

	chunk := int(math.Sqrt(float64(elementCeiling)))
	if chunk < 1 {
		chunk = 1
	}
	if chunk > n {
		chunk = n
	}

	// Ceiling division: the number of blocks along one axis.
	blocks := (n + chunk - 1) / chunk

	rects := make([]BatchRect, 0, blocks*blocks)
	for oi := 0; oi < n; oi += chunk {
		oEnd := oi + chunk
		if oEnd > n {
			oEnd = n
		}
		for di := 0; di < n; di += chunk {
			dEnd := di + chunk
			if dEnd > n {
				dEnd = n
			}
			rects = append(rects, BatchRect{
				Origins:      IndexRange{Start: oi, End: oEnd},
				Destinations: IndexRange{Start: di, End: dEnd},
			})
		}
	}

	return BatchPlan{N: n, Chunk: chunk, ElementCeiling: elementCeiling, Rects: rects}, nil
}

// CostEstimate is the projected bill for a planned run.
type CostEstimate struct {
	Elements int
	CostUSD  float64
}

// EstimateCost projects the cost of billing the given element count at the
// configured per-thousand price.
func EstimateCost(elements int, pricePerThousandUSD float64) CostEstimate {
	return CostEstimate{
		Elements: elements,
		CostUSD:  float64(elements) * pricePerThousandUSD / 1000,
	}
}

// BatchStats summarizes a completed paid run for artifact metadata.
type BatchStats struct {
	Batches   int     `json:"batches"`
	Elements  int     `json:"elements"`
	CostUSD   float64 `json:"costUSD"`
	Departure string  `json:"departure"`
}
