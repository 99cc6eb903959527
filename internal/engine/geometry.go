// Package engine implements the placement engine: a multi-phase,
// priority-aware 3D bin-packing solver with orientation search, stability
// checking and rearrangement planning. The engine is pure and
// deterministic: given the same items, containers and live placements it
// produces byte-identical output.
package engine

import (
	"math"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Epsilon is the tolerance used for every comparison on coordinates.
// It is part of the engine's numeric contract and shared with the tests.
const Epsilon = 1e-6

// shelfTolerance groups near-equal base heights so stacking does not
// produce clusters of almost-identical shelves.
const shelfTolerance = 10 * Epsilon

// Orientation is one of the six axis-aligned permutations of an item's
// dimensions, expressed as the extents along width, depth and height.
type Orientation struct {
	Width  float64
	Depth  float64
	Height float64
}

// Orientations returns the six axis-aligned permutations of (w, d, h) in
// the engine's fixed enumeration order. The order is load-bearing: the
// spot finder returns the first valid orientation.
func Orientations(w, d, h float64) [6]Orientation {
	return [6]Orientation{
		{w, d, h}, {w, h, d},
		{d, w, h}, {d, h, w},
		{h, w, d}, {h, d, w},
	}
}

// BoxesOverlap reports whether two boxes share strictly positive volume.
// Faces touching within Epsilon do not count as overlap.
func BoxesOverlap(a, b model.Position) bool {
	noOverlapW := a.End.Width <= b.Start.Width+Epsilon ||
		b.End.Width <= a.Start.Width+Epsilon
	noOverlapD := a.End.Depth <= b.Start.Depth+Epsilon ||
		b.End.Depth <= a.Start.Depth+Epsilon
	noOverlapH := a.End.Height <= b.Start.Height+Epsilon ||
		b.End.Height <= a.Start.Height+Epsilon

	return !(noOverlapW || noOverlapD || noOverlapH)
}

// footprintOverlap reports strictly positive overlap of the width/depth
// projections of two boxes, ignoring height.
func footprintOverlap(a, b model.Position) bool {
	noOverlapW := a.End.Width <= b.Start.Width+Epsilon ||
		b.End.Width <= a.Start.Width+Epsilon
	noOverlapD := a.End.Depth <= b.Start.Depth+Epsilon ||
		b.End.Depth <= a.Start.Depth+Epsilon

	return !(noOverlapW || noOverlapD)
}

// InBounds reports whether pos lies entirely within the container cavity,
// within Epsilon on every axis.
func InBounds(pos model.Position, c model.Container) bool {
	return pos.Start.Width >= -Epsilon &&
		pos.Start.Depth >= -Epsilon &&
		pos.Start.Height >= -Epsilon &&
		pos.End.Width <= c.Width+Epsilon &&
		pos.End.Depth <= c.Depth+Epsilon &&
		pos.End.Height <= c.Height+Epsilon
}

// IsStable reports whether an item at pos would rest on a support.
// An item is stable on the floor, or when some placed item's top face is
// level with its base and their horizontal footprints overlap with
// strictly positive area. Any non-zero top-face overlap counts;
// fractional-area thresholds are out of scope.
func IsStable(pos model.Position, placed []model.Placement) bool {
	if math.Abs(pos.Start.Height) < Epsilon {
		return true
	}
	for _, q := range placed {
		if math.Abs(q.Position.End.Height-pos.Start.Height) >= Epsilon {
			continue
		}
		if footprintOverlap(pos, q.Position) {
			return true
		}
	}
	return false
}

// DoesBlock reports whether blocker obstructs the straight retrieval path
// of target out of the container along the depth axis towards depth 0.
// It blocks when the (width, height) projections overlap and the blocker
// sits entirely nearer the opening than the target's front face.
func DoesBlock(blocker, target model.Position) bool {
	overlapW := !(blocker.End.Width <= target.Start.Width+Epsilon ||
		target.End.Width <= blocker.Start.Width+Epsilon)
	overlapH := !(blocker.End.Height <= target.Start.Height+Epsilon ||
		target.End.Height <= blocker.Start.Height+Epsilon)
	if !overlapW || !overlapH {
		return false
	}
	return blocker.End.Depth <= target.Start.Depth+Epsilon
}
