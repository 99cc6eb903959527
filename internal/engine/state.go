package engine

import (
	"fmt"

	"github.com/piwi3910/CargoStow/internal/model"
)

// State is the engine's private, mutable view of where every item sits
// during one invocation. It is cloned from the caller's live placements on
// entry and never aliases them.
type State struct {
	placements map[string][]model.Placement // containerId -> ordered placements
}

// NewState deep-copies the seed map into a fresh simulation state.
func NewState(seed map[string][]model.Placement) *State {
	s := &State{placements: make(map[string][]model.Placement, len(seed))}
	for containerID, list := range seed {
		cloned := make([]model.Placement, len(list))
		copy(cloned, list)
		s.placements[containerID] = cloned
	}
	return s
}

// In returns the placements currently in the given container. The slice
// is owned by the state; callers must not mutate it.
func (s *State) In(containerID string) []model.Placement {
	return s.placements[containerID]
}

// Commit appends a placement to its container.
func (s *State) Commit(p model.Placement) {
	s.placements[p.ContainerID] = append(s.placements[p.ContainerID], p)
}

// Remove drops the placement of itemID from containerID and returns it.
func (s *State) Remove(itemID, containerID string) (model.Placement, bool) {
	list := s.placements[containerID]
	for i, p := range list {
		if p.ItemID == itemID {
			s.placements[containerID] = append(list[:i:i], list[i+1:]...)
			return p, true
		}
	}
	return model.Placement{}, false
}

// Move relocates an already-placed item to a new container and position.
// From the engine's perspective the operation is atomic: the item is
// never observable in both containers.
func (s *State) Move(itemID, fromContainer string, to model.Placement) bool {
	if _, ok := s.Remove(itemID, fromContainer); !ok {
		return false
	}
	s.Commit(to)
	return true
}

// Snapshot returns a deep copy of the current state, used to restore the
// pre-attempt arrangement when a rearrangement attempt is abandoned.
func (s *State) Snapshot() map[string][]model.Placement {
	snap := make(map[string][]model.Placement, len(s.placements))
	for containerID, list := range s.placements {
		cloned := make([]model.Placement, len(list))
		copy(cloned, list)
		snap[containerID] = cloned
	}
	return snap
}

// Restore replaces the state with a previously taken snapshot.
func (s *State) Restore(snap map[string][]model.Placement) {
	s.placements = make(map[string][]model.Placement, len(snap))
	for containerID, list := range snap {
		cloned := make([]model.Placement, len(list))
		copy(cloned, list)
		s.placements[containerID] = cloned
	}
}

// Check re-validates every structural invariant of the simulation:
// placements in bounds, pair-wise non-overlapping and stable within their
// container, and each item id present at most once across all containers.
// A non-nil error indicates a programmer error in the engine.
func (s *State) Check(containers []model.Container) error {
	byID := make(map[string]model.Container, len(containers))
	for _, c := range containers {
		byID[c.ID] = c
	}

	seen := make(map[string]string) // itemId -> containerId
	for containerID, list := range s.placements {
		c, ok := byID[containerID]
		if !ok {
			return fmt.Errorf("state holds unknown container %q", containerID)
		}
		for i, p := range list {
			if prev, dup := seen[p.ItemID]; dup {
				return fmt.Errorf("item %q placed in both %q and %q", p.ItemID, prev, containerID)
			}
			seen[p.ItemID] = containerID

			if !InBounds(p.Position, c) {
				return fmt.Errorf("item %q out of bounds in container %q", p.ItemID, containerID)
			}
			others := make([]model.Placement, 0, len(list)-1)
			others = append(others, list[:i]...)
			others = append(others, list[i+1:]...)
			for _, q := range others {
				if BoxesOverlap(p.Position, q.Position) {
					return fmt.Errorf("items %q and %q overlap in container %q", p.ItemID, q.ItemID, containerID)
				}
			}
			if !IsStable(p.Position, others) {
				return fmt.Errorf("item %q unstable in container %q", p.ItemID, containerID)
			}
		}
	}
	return nil
}
