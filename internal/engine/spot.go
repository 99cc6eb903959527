package engine

import (
	"math"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Grid constants for the spot search. A container axis is divided into
// at most gridDivisions steps, never finer than minGridStep. Both are
// part of the numeric contract shared with the tests.
const (
	gridDivisions = 25
	minGridStep   = 0.02
)

// Spot is a valid placement candidate: a position that is in bounds,
// overlap-free and stable, together with the orientation that produced it.
type Spot struct {
	Position    model.Position
	Orientation Orientation
}

// FindSpot searches one container for a valid spot for the item given the
// container's current simulated contents. It returns the lexicographically
// first valid (orientation, height, depth, width) candidate in the fixed
// iteration order, so repeated runs pin exact coordinates.
//
// Heights iterate ascending (floor first) to keep stacks short. Depth
// order depends on priority: high-priority items fill from the opening
// (depth 0) so they stay accessible, everything else fills from the back.
// Width iterates ascending.
func FindSpot(item model.Item, c model.Container, placed []model.Placement, highPriority bool) (Spot, bool) {
	widthStep := math.Max(c.Width/gridDivisions, minGridStep)
	depthStep := math.Max(c.Depth/gridDivisions, minGridStep)
	widthSteps := int(c.Width/widthStep) + 2
	depthSteps := int(c.Depth/depthStep) + 2

	baseHeights := candidateBaseHeights(placed)

	for _, ori := range Orientations(item.Width, item.Depth, item.Height) {
		if ori.Width > c.Width+Epsilon ||
			ori.Depth > c.Depth+Epsilon ||
			ori.Height > c.Height+Epsilon {
			continue
		}

		for _, startH := range baseHeights {
			if startH+ori.Height > c.Height+Epsilon {
				continue
			}

			for dIdx := 0; dIdx < depthSteps; dIdx++ {
				var startD float64
				if highPriority {
					startD = float64(dIdx) * depthStep
				} else {
					startD = c.Depth - float64(dIdx+1)*depthStep
				}
				startD = math.Max(0, math.Min(startD, c.Depth-ori.Depth))
				if startD+ori.Depth > c.Depth+Epsilon {
					continue
				}

				for wIdx := 0; wIdx < widthSteps; wIdx++ {
					startW := float64(wIdx) * widthStep
					startW = math.Max(0, math.Min(startW, c.Width-ori.Width))
					if startW+ori.Width > c.Width+Epsilon {
						continue
					}

					candidate := model.Position{
						Start: model.Coordinates{Width: startW, Depth: startD, Height: startH},
						End:   model.Coordinates{Width: startW + ori.Width, Depth: startD + ori.Depth, Height: startH + ori.Height},
					}

					if !InBounds(candidate, c) {
						continue
					}
					if overlapsAny(candidate, placed) {
						continue
					}
					if !IsStable(candidate, placed) {
						continue
					}

					return Spot{Position: candidate, Orientation: ori}, true
				}
			}
		}
	}

	return Spot{}, false
}

// candidateBaseHeights returns the floor plus the top face of every placed
// item, ascending, with near-duplicates collapsed under shelfTolerance.
func candidateBaseHeights(placed []model.Placement) []float64 {
	heights := []float64{0.0}
	for _, p := range placed {
		top := p.Position.End.Height
		duplicate := false
		for _, h := range heights {
			if math.Abs(top-h) < shelfTolerance {
				duplicate = true
				break
			}
		}
		if !duplicate {
			heights = append(heights, top)
		}
	}
	// Insertion keeps discovery order; the search needs ascending.
	for i := 1; i < len(heights); i++ {
		for j := i; j > 0 && heights[j] < heights[j-1]; j-- {
			heights[j], heights[j-1] = heights[j-1], heights[j]
		}
	}
	return heights
}

func overlapsAny(candidate model.Position, placed []model.Placement) bool {
	for _, p := range placed {
		if BoxesOverlap(candidate, p.Position) {
			return true
		}
	}
	return false
}
