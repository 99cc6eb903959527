package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/CargoStow/internal/model"
)

// PlaceBatch computes placements for a batch of incoming items across the
// given containers, reconciling with the live placements supplied by the
// caller. It runs three phases: preferred-zone placement, rearrangement
// for high-priority items, and placement in any container. The function
// is pure; the caller's maps and slices are never mutated.
//
// Items are processed in priority-descending order, ties broken by input
// order. Rearrangement moves are numbered from 1 in execution order.
func PlaceBatch(items []model.Item, containers []model.Container, current map[string][]model.Placement) model.EngineOutput {
	if err := validateInputs(items, containers, current); err != nil {
		failed := make([]string, 0, len(items))
		for _, it := range items {
			failed = append(failed, it.ID)
		}
		return model.EngineOutput{
			Success:        false,
			Error:          err.Error(),
			Placements:     []model.PlacementResult{},
			Rearrangements: []model.RearrangementStep{},
			FailedItemIDs:  failed,
		}
	}

	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	state := NewState(current)

	// Seed the final placements with every live placement so untouched
	// items survive into the output.
	final := make(map[string]model.PlacementResult)
	for containerID, list := range current {
		for _, p := range list {
			final[p.ItemID] = model.PlacementResult{
				ItemID:      p.ItemID,
				ContainerID: containerID,
				Position:    p.Position,
			}
		}
	}

	var rearrangements []model.RearrangementStep
	var failed []string

	// Phase 1: preferred zones.
	var backlog []model.Item
	for _, item := range sorted {
		if item.PreferredZone == "" {
			backlog = append(backlog, item)
			continue
		}
		placed := false
		for _, c := range containers {
			if c.Zone != item.PreferredZone {
				continue
			}
			if spot, ok := FindSpot(item, c, state.In(c.ID), item.HighPriority()); ok {
				state.Commit(model.Placement{
					ItemID:      item.ID,
					ContainerID: c.ID,
					Position:    spot.Position,
					Priority:    item.Priority,
				})
				final[item.ID] = model.PlacementResult{ItemID: item.ID, ContainerID: c.ID, Position: spot.Position}
				placed = true
				break
			}
		}
		if !placed {
			backlog = append(backlog, item)
		}
	}

	// Phase 2: rearrangement for high-priority items.
	stepCounter := 0
	var finalPass []model.Item
	for _, item := range backlog {
		if !item.HighPriority() {
			finalPass = append(finalPass, item)
			continue
		}

		candidates := preferredContainers(item, containers)
		placed := false
		for _, c := range candidates {
			moves, ok := tryRearrange(item, c, containers, state, stepCounter)
			if !ok {
				continue
			}
			for _, m := range moves {
				final[m.ItemID] = model.PlacementResult{
					ItemID:      m.ItemID,
					ContainerID: m.ToContainer,
					Position:    m.ToPosition,
				}
			}
			// The candidate itself was committed by tryRearrange; its
			// placement is the last entry of the container's list.
			in := state.In(c.ID)
			committed := in[len(in)-1]
			final[item.ID] = model.PlacementResult{ItemID: item.ID, ContainerID: c.ID, Position: committed.Position}
			rearrangements = append(rearrangements, moves...)
			stepCounter += len(moves)
			placed = true
			break
		}
		if !placed {
			finalPass = append(finalPass, item)
		}
	}

	// Phase 3: any container.
	for _, item := range finalPass {
		placed := false
		for _, c := range containers {
			if spot, ok := FindSpot(item, c, state.In(c.ID), item.HighPriority()); ok {
				state.Commit(model.Placement{
					ItemID:      item.ID,
					ContainerID: c.ID,
					Position:    spot.Position,
					Priority:    item.Priority,
				})
				final[item.ID] = model.PlacementResult{ItemID: item.ID, ContainerID: c.ID, Position: spot.Position}
				placed = true
				break
			}
		}
		if !placed {
			failed = append(failed, item.ID)
		}
	}

	return assembleOutput(final, rearrangements, failed)
}

// preferredContainers returns the containers Phase 2 may rearrange for the
// item: those in its preferred zone, or every container when the item has
// no preferred zone or the zone matches nothing.
func preferredContainers(item model.Item, containers []model.Container) []model.Container {
	if item.PreferredZone == "" {
		return containers
	}
	var matched []model.Container
	for _, c := range containers {
		if c.Zone == item.PreferredZone {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return containers
	}
	return matched
}

// tryRearrange attempts to make room for item in container c by evicting
// a minimal prefix of lower-priority placements and re-homing each of
// them elsewhere. The attempt is all-or-nothing: on any failure the
// simulation is restored to its pre-attempt arrangement and no moves are
// reported. Step numbers continue from stepBase.
func tryRearrange(item model.Item, c model.Container, containers []model.Container, state *State, stepBase int) ([]model.RearrangementStep, bool) {
	snapshot := state.Snapshot()

	evictable := evictionOrder(state.In(c.ID), item.Priority)

	var evicted []model.Placement
	spot, found := FindSpot(item, c, state.In(c.ID), true)
	for !found && len(evicted) < len(evictable) {
		next := evictable[len(evicted)]
		if _, ok := state.Remove(next.ItemID, c.ID); !ok {
			state.Restore(snapshot)
			return nil, false
		}
		evicted = append(evicted, next)
		spot, found = FindSpot(item, c, state.In(c.ID), true)
	}
	if !found {
		state.Restore(snapshot)
		return nil, false
	}

	// Every evicted item needs a new home in some other container before
	// the candidate may take the freed spot.
	var moves []model.RearrangementStep
	for _, p := range evicted {
		ext := p.Position.Extents()
		displaced := model.Item{
			ID:       p.ItemID,
			Width:    ext.Width,
			Depth:    ext.Depth,
			Height:   ext.Height,
			Priority: p.Priority,
		}

		rehomed := false
		for _, other := range containers {
			if other.ID == c.ID {
				continue
			}
			newSpot, ok := FindSpot(displaced, other, state.In(other.ID), displaced.HighPriority())
			if !ok {
				continue
			}
			state.Commit(model.Placement{
				ItemID:      p.ItemID,
				ContainerID: other.ID,
				Position:    newSpot.Position,
				Priority:    p.Priority,
			})
			from := p.Position
			moves = append(moves, model.RearrangementStep{
				Step:          stepBase + len(moves) + 1,
				Action:        "move",
				ItemID:        p.ItemID,
				FromContainer: c.ID,
				FromPosition:  &from,
				ToContainer:   other.ID,
				ToPosition:    newSpot.Position,
			})
			rehomed = true
			break
		}
		if !rehomed {
			state.Restore(snapshot)
			return nil, false
		}
	}

	state.Commit(model.Placement{
		ItemID:      item.ID,
		ContainerID: c.ID,
		Position:    spot.Position,
		Priority:    item.Priority,
	})
	return moves, true
}

// evictionOrder lists the placements in a container that a candidate of
// the given priority may displace: strictly lower priority first, larger
// volume breaking ties so fewer evictions free more room.
func evictionOrder(placed []model.Placement, candidatePriority int) []model.Placement {
	var evictable []model.Placement
	for _, p := range placed {
		if p.Priority < candidatePriority {
			evictable = append(evictable, p)
		}
	}
	sort.SliceStable(evictable, func(i, j int) bool {
		if evictable[i].Priority != evictable[j].Priority {
			return evictable[i].Priority < evictable[j].Priority
		}
		return evictable[i].Position.Volume() > evictable[j].Position.Volume()
	})
	return evictable
}

// assembleOutput materialises the final placement list (itemId-sorted for
// deterministic output), the rearrangement steps in execution order, and
// the failure summary.
func assembleOutput(final map[string]model.PlacementResult, rearrangements []model.RearrangementStep, failed []string) model.EngineOutput {
	failedSet := make(map[string]bool, len(failed))
	for _, id := range failed {
		failedSet[id] = true
	}

	placements := make([]model.PlacementResult, 0, len(final))
	for _, pr := range final {
		if !failedSet[pr.ItemID] {
			placements = append(placements, pr)
		}
	}
	sort.Slice(placements, func(i, j int) bool {
		return placements[i].ItemID < placements[j].ItemID
	})

	if rearrangements == nil {
		rearrangements = []model.RearrangementStep{}
	}
	if failed == nil {
		failed = []string{}
	}

	out := model.EngineOutput{
		Success:        len(failed) == 0,
		Placements:     placements,
		Rearrangements: rearrangements,
		FailedItemIDs:  failed,
	}
	if !out.Success {
		out.Error = "Placement incomplete. Failed items: " + strings.Join(failed, ", ")
	}
	return out
}

// validateInputs rejects malformed requests before any simulation starts:
// duplicate ids, non-positive dimensions, placements referencing unknown
// containers, and live placements that already violate the geometric
// invariants.
func validateInputs(items []model.Item, containers []model.Container, current map[string][]model.Placement) error {
	containerIDs := make(map[string]model.Container, len(containers))
	for _, c := range containers {
		if c.ID == "" {
			return fmt.Errorf("container with empty id")
		}
		if _, dup := containerIDs[c.ID]; dup {
			return fmt.Errorf("duplicate container id %q", c.ID)
		}
		if c.Width <= 0 || c.Depth <= 0 || c.Height <= 0 {
			return fmt.Errorf("container %q has non-positive dimensions", c.ID)
		}
		containerIDs[c.ID] = c
	}

	itemIDs := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("item with empty id")
		}
		if itemIDs[it.ID] {
			return fmt.Errorf("duplicate item id %q", it.ID)
		}
		if it.Width <= 0 || it.Depth <= 0 || it.Height <= 0 {
			return fmt.Errorf("item %q has non-positive dimensions", it.ID)
		}
		itemIDs[it.ID] = true
	}

	seen := make(map[string]string)
	for containerID, list := range current {
		c, ok := containerIDs[containerID]
		if !ok {
			return fmt.Errorf("placements reference unknown container %q", containerID)
		}
		for i, p := range list {
			if p.Position.End.Width <= p.Position.Start.Width+Epsilon ||
				p.Position.End.Depth <= p.Position.Start.Depth+Epsilon ||
				p.Position.End.Height <= p.Position.Start.Height+Epsilon {
				return fmt.Errorf("placement of %q has non-positive extent", p.ItemID)
			}
			if prev, dup := seen[p.ItemID]; dup {
				return fmt.Errorf("item %q placed in both %q and %q", p.ItemID, prev, containerID)
			}
			seen[p.ItemID] = containerID
			if !InBounds(p.Position, c) {
				return fmt.Errorf("placement of %q out of bounds in container %q", p.ItemID, containerID)
			}
			for _, q := range list[i+1:] {
				if BoxesOverlap(p.Position, q.Position) {
					return fmt.Errorf("placements %q and %q overlap in container %q", p.ItemID, q.ItemID, containerID)
				}
			}
		}
	}

	return nil
}
