package engine

import (
	"testing"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id string, w, d, h float64, priority int) model.Item {
	return model.Item{ID: id, Name: id, Width: w, Depth: d, Height: h, Priority: priority}
}

func testContainer(id, zone string, w, d, h float64) model.Container {
	return model.Container{ID: id, Zone: zone, Width: w, Depth: d, Height: h}
}

func TestFindSpot_LowPriorityFillsFromBack(t *testing.T) {
	// Depth grid step is 10/25 = 0.4; the first back-first candidate 9.6
	// clamps to 10-3 = 7, which is the pinned result.
	c := testContainer("C1", "Z1", 10, 10, 10)
	item := testItem("A", 2, 3, 1, 50)

	spot, ok := FindSpot(item, c, nil, false)

	require.True(t, ok, "empty container must yield a spot")
	assert.InDelta(t, 0.0, spot.Position.Start.Width, Epsilon)
	assert.InDelta(t, 7.0, spot.Position.Start.Depth, Epsilon, "low priority lands at the back")
	assert.InDelta(t, 0.0, spot.Position.Start.Height, Epsilon)
	assert.InDelta(t, 2.0, spot.Position.End.Width, Epsilon)
	assert.InDelta(t, 10.0, spot.Position.End.Depth, Epsilon)
	assert.InDelta(t, 1.0, spot.Position.End.Height, Epsilon)
	assert.Equal(t, Orientation{2, 3, 1}, spot.Orientation, "reference orientation is tried first")
}

func TestFindSpot_HighPriorityFillsFromFront(t *testing.T) {
	c := testContainer("C1", "Z1", 10, 10, 10)
	item := testItem("A", 2, 3, 1, 80)

	spot, ok := FindSpot(item, c, nil, true)

	require.True(t, ok)
	assert.InDelta(t, 0.0, spot.Position.Start.Width, Epsilon)
	assert.InDelta(t, 0.0, spot.Position.Start.Depth, Epsilon, "high priority lands at the opening")
	assert.InDelta(t, 0.0, spot.Position.Start.Height, Epsilon)
}

func TestFindSpot_StacksOnFullFloor(t *testing.T) {
	// The floor layer is fully occupied, so the only base height left is
	// the top face of the preloaded item.
	c := testContainer("C1", "Z1", 4, 4, 4)
	placed := []model.Placement{
		{ItemID: "B", ContainerID: "C1", Position: pos(0, 0, 0, 4, 4, 1), Priority: 50},
	}
	item := testItem("A", 2, 2, 1, 80)

	spot, ok := FindSpot(item, c, placed, true)

	require.True(t, ok)
	assert.InDelta(t, 0.0, spot.Position.Start.Width, Epsilon)
	assert.InDelta(t, 0.0, spot.Position.Start.Depth, Epsilon)
	assert.InDelta(t, 1.0, spot.Position.Start.Height, Epsilon, "stacks on the preloaded item's top face")
	assert.True(t, IsStable(spot.Position, placed))
}

func TestFindSpot_NoOrientationFits(t *testing.T) {
	c := testContainer("C1", "Z1", 1, 1, 1)
	item := testItem("A", 2, 2, 2, 50)

	_, ok := FindSpot(item, c, nil, false)
	assert.False(t, ok, "oversized item must not find a spot")
}

func TestFindSpot_RotatesToFit(t *testing.T) {
	// 1x6x1 only fits the 6x2x2 container when its long axis lies along
	// the container's width.
	c := testContainer("C1", "Z1", 6, 2, 2)
	item := testItem("A", 1, 6, 1, 50)

	spot, ok := FindSpot(item, c, nil, false)

	require.True(t, ok)
	assert.Equal(t, Orientation{6, 1, 1}, spot.Orientation)
	assert.InDelta(t, 6.0, spot.Position.End.Width, Epsilon)
}

func TestFindSpot_SkipsOccupiedFrontSlots(t *testing.T) {
	// A high-priority item walks the depth grid front to back and takes
	// the first slot that clears the blocker at the opening.
	c := testContainer("C1", "Z1", 2, 10, 2)
	placed := []model.Placement{
		{ItemID: "B", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 2), Priority: 90},
	}
	item := testItem("A", 2, 2, 1, 80)

	spot, ok := FindSpot(item, c, placed, true)

	require.True(t, ok)
	assert.GreaterOrEqual(t, spot.Position.Start.Depth, 2.0-Epsilon, "must clear the blocker")
	assert.InDelta(t, 0.0, spot.Position.Start.Height, Epsilon, "floor is preferred over stacking")
}

func TestFindSpot_Deterministic(t *testing.T) {
	c := testContainer("C1", "Z1", 7, 5, 3)
	placed := []model.Placement{
		{ItemID: "B", ContainerID: "C1", Position: pos(0, 0, 0, 3, 5, 1), Priority: 20},
		{ItemID: "C", ContainerID: "C1", Position: pos(3, 3, 0, 6, 5, 2), Priority: 30},
	}
	item := testItem("A", 2, 2, 2, 80)

	first, ok := FindSpot(item, c, placed, true)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := FindSpot(item, c, placed, true)
		require.True(t, ok)
		assert.Equal(t, first, again, "identical inputs must pin identical spots")
	}
}

func TestFindSpot_MinimumGridStep(t *testing.T) {
	// Tiny containers fall back to the 0.02 minimum step instead of
	// dividing the axis into 25 slivers.
	c := testContainer("C1", "Z1", 0.1, 0.1, 0.1)
	item := testItem("A", 0.05, 0.05, 0.05, 50)

	spot, ok := FindSpot(item, c, nil, false)

	require.True(t, ok)
	// Back-first: 0.1 - 0.02 = 0.08 clamps to 0.1 - 0.05 = 0.05.
	assert.InDelta(t, 0.05, spot.Position.Start.Depth, Epsilon)
}

func TestCandidateBaseHeights_DedupAndOrder(t *testing.T) {
	placed := []model.Placement{
		{ItemID: "A", Position: pos(0, 0, 0, 1, 1, 2)},
		{ItemID: "B", Position: pos(2, 0, 0, 3, 1, 1)},
		{ItemID: "C", Position: pos(4, 0, 0, 5, 1, 2.000000001)}, // within 10*Epsilon of 2
	}

	heights := candidateBaseHeights(placed)

	assert.Equal(t, []float64{0, 1, 2}, heights, "floor first, ascending, near-duplicates collapsed")
}
