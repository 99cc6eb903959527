package engine

import (
	"testing"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedState() map[string][]model.Placement {
	return map[string][]model.Placement{
		"C1": {
			{ItemID: "A", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 1), Priority: 40},
			{ItemID: "B", ContainerID: "C1", Position: pos(2, 0, 0, 4, 2, 1), Priority: 60},
		},
		"C2": {},
	}
}

func TestNewState_ClonesSeed(t *testing.T) {
	seed := seedState()
	s := NewState(seed)

	// Mutating the simulation must not leak into the caller's map.
	s.Commit(model.Placement{ItemID: "X", ContainerID: "C1", Position: pos(0, 2, 0, 1, 3, 1), Priority: 10})
	s.Remove("A", "C1")

	assert.Len(t, seed["C1"], 2, "caller's seed must stay untouched")
	assert.Equal(t, "A", seed["C1"][0].ItemID)
}

func TestState_CommitAndRemove(t *testing.T) {
	s := NewState(seedState())

	s.Commit(model.Placement{ItemID: "X", ContainerID: "C2", Position: pos(0, 0, 0, 1, 1, 1), Priority: 70})
	assert.Len(t, s.In("C2"), 1)

	removed, ok := s.Remove("A", "C1")
	require.True(t, ok)
	assert.Equal(t, "A", removed.ItemID)
	assert.Len(t, s.In("C1"), 1)

	_, ok = s.Remove("A", "C1")
	assert.False(t, ok, "removing twice must fail")

	_, ok = s.Remove("B", "C2")
	assert.False(t, ok, "item is not in that container")
}

func TestState_Move(t *testing.T) {
	s := NewState(seedState())

	to := model.Placement{ItemID: "A", ContainerID: "C2", Position: pos(0, 0, 0, 2, 2, 1), Priority: 40}
	require.True(t, s.Move("A", "C1", to))

	assert.Len(t, s.In("C1"), 1)
	require.Len(t, s.In("C2"), 1)
	assert.Equal(t, "A", s.In("C2")[0].ItemID)

	assert.False(t, s.Move("ghost", "C1", to), "moving an absent item fails")
}

func TestState_SnapshotRestore(t *testing.T) {
	s := NewState(seedState())
	snap := s.Snapshot()

	s.Remove("A", "C1")
	s.Remove("B", "C1")
	s.Commit(model.Placement{ItemID: "X", ContainerID: "C2", Position: pos(0, 0, 0, 1, 1, 1), Priority: 10})
	s.Restore(snap)

	require.Len(t, s.In("C1"), 2)
	assert.Equal(t, "A", s.In("C1")[0].ItemID)
	assert.Equal(t, "B", s.In("C1")[1].ItemID)
	assert.Empty(t, s.In("C2"), "restore must discard the tentative commit")
}

func TestState_SnapshotIsIsolated(t *testing.T) {
	s := NewState(seedState())
	snap := s.Snapshot()

	s.Remove("A", "C1")

	assert.Len(t, snap["C1"], 2, "snapshot must not alias live state")
}

func TestState_Check(t *testing.T) {
	containers := []model.Container{
		testContainer("C1", "Z1", 10, 10, 10),
		testContainer("C2", "Z2", 10, 10, 10),
	}

	t.Run("valid state", func(t *testing.T) {
		s := NewState(seedState())
		assert.NoError(t, s.Check(containers))
	})

	t.Run("overlap detected", func(t *testing.T) {
		s := NewState(map[string][]model.Placement{
			"C1": {
				{ItemID: "A", ContainerID: "C1", Position: pos(0, 0, 0, 2, 2, 2)},
				{ItemID: "B", ContainerID: "C1", Position: pos(1, 1, 1, 3, 3, 3)},
			},
		})
		assert.ErrorContains(t, s.Check(containers), "overlap")
	})

	t.Run("out of bounds detected", func(t *testing.T) {
		s := NewState(map[string][]model.Placement{
			"C1": {{ItemID: "A", ContainerID: "C1", Position: pos(8, 0, 0, 12, 2, 2)}},
		})
		assert.ErrorContains(t, s.Check(containers), "out of bounds")
	})

	t.Run("floating item detected", func(t *testing.T) {
		s := NewState(map[string][]model.Placement{
			"C1": {{ItemID: "A", ContainerID: "C1", Position: pos(0, 0, 5, 2, 2, 6)}},
		})
		assert.ErrorContains(t, s.Check(containers), "unstable")
	})

	t.Run("duplicate item across containers", func(t *testing.T) {
		s := NewState(map[string][]model.Placement{
			"C1": {{ItemID: "A", ContainerID: "C1", Position: pos(0, 0, 0, 1, 1, 1)}},
			"C2": {{ItemID: "A", ContainerID: "C2", Position: pos(0, 0, 0, 1, 1, 1)}},
		})
		assert.ErrorContains(t, s.Check(containers), "placed in both")
	})

	t.Run("unknown container", func(t *testing.T) {
		s := NewState(map[string][]model.Placement{
			"C9": {{ItemID: "A", ContainerID: "C9", Position: pos(0, 0, 0, 1, 1, 1)}},
		})
		assert.ErrorContains(t, s.Check(containers), "unknown container")
	})
}
