package engine

import (
	"testing"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockingItems_OrderedByDepth(t *testing.T) {
	target := model.Placement{ItemID: "T", ContainerID: "C1", Position: pos(0, 6, 0, 2, 8, 2)}
	inContainer := []model.Placement{
		target,
		{ItemID: "near", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 2)},
		{ItemID: "far", ContainerID: "C1", Position: pos(0, 3, 0, 2, 5, 2)},
		{ItemID: "beside", ContainerID: "C1", Position: pos(4, 0, 0, 6, 2, 2)},
		{ItemID: "above", ContainerID: "C1", Position: pos(0, 0, 4, 2, 2, 6)},
	}

	blockers := BlockingItems(target, inContainer)

	require.Len(t, blockers, 2, "only items in the retrieval path block")
	assert.Equal(t, "near", blockers[0].ItemID, "nearest the opening comes first")
	assert.Equal(t, "far", blockers[1].ItemID)
}

func TestRetrievalPlan_StepsInOrder(t *testing.T) {
	target := model.Placement{ItemID: "T", ContainerID: "C1", Position: pos(0, 4, 0, 2, 6, 2)}
	inContainer := []model.Placement{
		target,
		{ItemID: "B1", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 2)},
	}
	names := map[string]string{"T": "Food Pack", "B1": "Tool Kit"}

	steps := RetrievalPlan(target, inContainer, names)

	require.Len(t, steps, 2)
	assert.Equal(t, model.RetrievalStep{Step: 1, Action: "setAside", ItemID: "B1", ItemName: "Tool Kit"}, steps[0])
	assert.Equal(t, model.RetrievalStep{Step: 2, Action: "retrieve", ItemID: "T", ItemName: "Food Pack"}, steps[1])
}

func TestRetrievalPlan_NoBlockers(t *testing.T) {
	target := model.Placement{ItemID: "T", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 2)}

	steps := RetrievalPlan(target, []model.Placement{target}, nil)

	require.Len(t, steps, 1)
	assert.Equal(t, "retrieve", steps[0].Action)
	assert.Equal(t, 1, steps[0].Step)
}

func TestSearchItem_PicksFewestBlockers(t *testing.T) {
	// The same product sits in two containers; the copy without blockers
	// is the one to fetch.
	blockedCopy := model.Placement{ItemID: "I1", ContainerID: "C1", Position: pos(0, 4, 0, 2, 6, 2)}
	clearCopy := model.Placement{ItemID: "I2", ContainerID: "C2", Position: pos(0, 0, 0, 2, 2, 2)}
	placements := map[string][]model.Placement{
		"C1": {
			blockedCopy,
			{ItemID: "X", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 2)},
		},
		"C2": {clearCopy},
	}
	items := map[string]model.Item{
		"I1": {ID: "I1", Name: "Water Bag"},
		"I2": {ID: "I2", Name: "Water Bag"},
		"X":  {ID: "X", Name: "Crate"},
	}

	result := SearchItem("", "Water Bag", placements, items)

	require.True(t, result.Found)
	assert.Equal(t, "I2", result.Placement.ItemID, "the copy with fewer blockers wins")
	require.Len(t, result.Steps, 1)
	assert.Equal(t, "retrieve", result.Steps[0].Action)
}

func TestSearchItem_ByID(t *testing.T) {
	p := model.Placement{ItemID: "I1", ContainerID: "C1", Position: pos(0, 0, 0, 1, 1, 1)}
	placements := map[string][]model.Placement{"C1": {p}}

	result := SearchItem("I1", "", placements, map[string]model.Item{"I1": {ID: "I1", Name: "Kit"}})

	require.True(t, result.Found)
	assert.Equal(t, p, result.Placement)
}

func TestSearchItem_NotFound(t *testing.T) {
	result := SearchItem("ghost", "", map[string][]model.Placement{}, nil)
	assert.False(t, result.Found)
	assert.Empty(t, result.Steps)
}
