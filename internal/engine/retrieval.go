package engine

import (
	"sort"

	"github.com/piwi3910/CargoStow/internal/model"
)

// BlockingItems returns the placements in the same container that block
// the straight retrieval path of target, nearest the opening first.
func BlockingItems(target model.Placement, inContainer []model.Placement) []model.Placement {
	var blockers []model.Placement
	for _, p := range inContainer {
		if p.ItemID == target.ItemID {
			continue
		}
		if DoesBlock(p.Position, target.Position) {
			blockers = append(blockers, p)
		}
	}
	sort.SliceStable(blockers, func(i, j int) bool {
		return blockers[i].Position.Start.Depth < blockers[j].Position.Start.Depth
	})
	return blockers
}

// RetrievalPlan builds the ordered steps to retrieve an item: one
// setAside step per blocker (nearest the opening first) followed by the
// retrieve step for the target itself. Names are resolved from the item
// manifest when available.
func RetrievalPlan(target model.Placement, inContainer []model.Placement, names map[string]string) []model.RetrievalStep {
	blockers := BlockingItems(target, inContainer)

	steps := make([]model.RetrievalStep, 0, len(blockers)+1)
	for i, b := range blockers {
		steps = append(steps, model.RetrievalStep{
			Step:     i + 1,
			Action:   "setAside",
			ItemID:   b.ItemID,
			ItemName: names[b.ItemID],
		})
	}
	steps = append(steps, model.RetrievalStep{
		Step:     len(blockers) + 1,
		Action:   "retrieve",
		ItemID:   target.ItemID,
		ItemName: names[target.ItemID],
	})
	return steps
}

// SearchResult describes the easiest-to-retrieve placement of a searched
// item together with its retrieval plan.
type SearchResult struct {
	Found     bool
	Placement model.Placement
	Steps     []model.RetrievalStep
}

// SearchItem locates the placement of the item that is cheapest to
// retrieve. Candidates are matched by item id, or by name when id is
// empty; among multiple matches the one with the fewest blockers wins,
// earlier candidates winning ties so the result is deterministic.
func SearchItem(itemID, name string, placements map[string][]model.Placement, itemsByID map[string]model.Item) SearchResult {
	containerIDs := make([]string, 0, len(placements))
	for id := range placements {
		containerIDs = append(containerIDs, id)
	}
	sort.Strings(containerIDs)

	names := make(map[string]string, len(itemsByID))
	for id, it := range itemsByID {
		names[id] = it.Name
	}

	best := SearchResult{}
	bestBlockers := -1
	for _, containerID := range containerIDs {
		for _, p := range placements[containerID] {
			if itemID != "" {
				if p.ItemID != itemID {
					continue
				}
			} else if it, ok := itemsByID[p.ItemID]; !ok || it.Name != name {
				continue
			}
			n := len(BlockingItems(p, placements[containerID]))
			if bestBlockers < 0 || n < bestBlockers {
				bestBlockers = n
				best = SearchResult{
					Found:     true,
					Placement: p,
					Steps:     RetrievalPlan(p, placements[containerID], names),
				}
			}
		}
	}
	return best
}
