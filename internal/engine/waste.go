package engine

import (
	"sort"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Waste reasons reported by IdentifyWaste.
const (
	WasteReasonExpired  = "Expired"
	WasteReasonDepleted = "Out of Uses"
)

// IdentifyWaste flags placed items that have expired (expiry date at or
// before now) or are out of uses (usage limit exhausted), returning each
// with its current location. Items without a placement are ignored; they
// cannot be collected.
func IdentifyWaste(items []model.Item, placements map[string][]model.Placement, now time.Time) []model.WasteItem {
	located := make(map[string]model.Placement)
	for _, list := range placements {
		for _, p := range list {
			located[p.ItemID] = p
		}
	}

	var waste []model.WasteItem
	for _, it := range items {
		p, ok := located[it.ID]
		if !ok {
			continue
		}
		var reason string
		switch {
		case it.ExpiryDate != nil && !it.ExpiryDate.After(now):
			reason = WasteReasonExpired
		case it.UsageLimit != nil && *it.UsageLimit <= 0:
			reason = WasteReasonDepleted
		default:
			continue
		}
		waste = append(waste, model.WasteItem{
			ItemID:      it.ID,
			Name:        it.Name,
			Reason:      reason,
			Mass:        it.Mass,
			ContainerID: p.ContainerID,
			Position:    p.Position,
		})
	}
	return waste
}

// PlanReturn fills an undocking return manifest from the given waste
// items, bounded by the return vehicle's mass allowance. Heaviest items
// are taken first so the allowance clears the most mass; anything that
// does not fit is listed as left behind.
func PlanReturn(waste []model.WasteItem, maxMass float64) model.ReturnManifest {
	ordered := make([]model.WasteItem, len(waste))
	copy(ordered, waste)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Mass > ordered[j].Mass
	})

	manifest := model.ReturnManifest{}
	for _, w := range ordered {
		if manifest.TotalMass+w.Mass > maxMass {
			manifest.LeftBehind = append(manifest.LeftBehind, w.ItemID)
			continue
		}
		manifest.Items = append(manifest.Items, w)
		manifest.TotalMass += w.Mass
		manifest.TotalVolume += w.Position.Volume()
	}
	return manifest
}
