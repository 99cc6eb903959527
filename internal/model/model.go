// Package model defines the shared data model for cargo stowage:
// items, containers, positions, placements and the engine's output record.
package model

import (
	"time"

	"github.com/google/uuid"
)

// HighPriorityThreshold is the priority at or above which an item is
// treated as high-priority. High-priority items are stowed near the
// container opening and may displace lower-priority items.
const HighPriorityThreshold = 75

// Coordinates holds axis lengths or offsets along the container's
// width, depth and height axes. Depth 0 is the container opening.
type Coordinates struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// Position is the axis-aligned bounding box of a placed item.
// End must exceed Start on every axis (items have positive volume).
type Position struct {
	Start Coordinates `json:"startCoordinates"`
	End   Coordinates `json:"endCoordinates"`
}

// Volume returns the volume of the bounding box.
func (p Position) Volume() float64 {
	return (p.End.Width - p.Start.Width) *
		(p.End.Depth - p.Start.Depth) *
		(p.End.Height - p.Start.Height)
}

// Extents returns the box's edge lengths along each axis.
func (p Position) Extents() Coordinates {
	return Coordinates{
		Width:  p.End.Width - p.Start.Width,
		Depth:  p.End.Depth - p.Start.Depth,
		Height: p.End.Height - p.Start.Height,
	}
}

// Item is a cargo item to be stowed. Width/Depth/Height are the item's
// dimensions in its reference orientation; the engine may use any of the
// six axis-aligned permutations. Mass, ExpiryDate and UsageLimit do not
// influence placement; they drive waste identification and manifests.
type Item struct {
	ID            string     `json:"itemId"`
	Name          string     `json:"name"`
	Width         float64    `json:"width"`
	Depth         float64    `json:"depth"`
	Height        float64    `json:"height"`
	Mass          float64    `json:"mass"`
	Priority      int        `json:"priority"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	UsageLimit    *int       `json:"usageLimit,omitempty"`
	PreferredZone string     `json:"preferredZone,omitempty"`
}

// NewItem creates an item with a generated short id and default priority.
func NewItem(name string, w, d, h float64) Item {
	return Item{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Width:    w,
		Depth:    d,
		Height:   h,
		Priority: 50,
	}
}

// HighPriority reports whether the item meets the high-priority threshold.
func (i Item) HighPriority() bool {
	return i.Priority >= HighPriorityThreshold
}

// Volume returns the item's volume in its reference orientation.
func (i Item) Volume() float64 {
	return i.Width * i.Depth * i.Height
}

// Container is a storage container's internal cavity. All placements in
// it must lie within [0,Width] x [0,Depth] x [0,Height].
type Container struct {
	ID     string  `json:"containerId"`
	Zone   string  `json:"zone"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// NewContainer creates a container with a generated short id.
func NewContainer(zone string, w, d, h float64) Container {
	return Container{
		ID:     uuid.New().String()[:8],
		Zone:   zone,
		Width:  w,
		Depth:  d,
		Height: h,
	}
}

// Volume returns the container's cavity volume.
func (c Container) Volume() float64 {
	return c.Width * c.Depth * c.Height
}

// Placement is an item committed to a container. Priority is carried so
// rearrangement can rank already-placed items without a second lookup.
type Placement struct {
	ItemID      string   `json:"itemId"`
	ContainerID string   `json:"containerId"`
	Position    Position `json:"position"`
	Priority    int      `json:"priority"`
}

// PlacementResult is the final public placement for one item.
type PlacementResult struct {
	ItemID      string   `json:"itemId"`
	ContainerID string   `json:"containerId"`
	Position    Position `json:"position"`
}

// RearrangementStep records one move of an already-placed item performed
// to make room for a higher-priority arrival. Step numbers start at 1 and
// increase in execution order. FromContainer and FromPosition are both
// set for moves; both absent would denote a fresh placement.
type RearrangementStep struct {
	Step          int       `json:"step"`
	Action        string    `json:"action"`
	ItemID        string    `json:"itemId"`
	FromContainer string    `json:"fromContainer,omitempty"`
	FromPosition  *Position `json:"fromPosition,omitempty"`
	ToContainer   string    `json:"toContainer"`
	ToPosition    Position  `json:"toPosition"`
}

// EngineOutput is the result of one placement batch. Success is false
// exactly when FailedItemIDs is non-empty or the input was rejected.
type EngineOutput struct {
	Success        bool                `json:"success"`
	Error          string              `json:"error,omitempty"`
	Placements     []PlacementResult   `json:"placements"`
	Rearrangements []RearrangementStep `json:"rearrangements"`
	FailedItemIDs  []string            `json:"failedItemIds"`
}

// PlacementRequest is the payload of one stowage job: the incoming items,
// the containers involved, and the live placements for those containers.
type PlacementRequest struct {
	Items             []Item                 `json:"items"`
	Containers        []Container            `json:"containers"`
	CurrentPlacements map[string][]Placement `json:"currentPlacements"`
}

// RetrievalStep is one step of a retrieval plan: set blockers aside,
// then retrieve the target.
type RetrievalStep struct {
	Step     int    `json:"step"`
	Action   string `json:"action"` // "setAside" or "retrieve"
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName,omitempty"`
}

// WasteItem is an item flagged for disposal together with its current
// location and the reason it was flagged.
type WasteItem struct {
	ItemID      string   `json:"itemId"`
	Name        string   `json:"name"`
	Reason      string   `json:"reason"` // "Expired" or "Out of Uses"
	Mass        float64  `json:"mass"`
	ContainerID string   `json:"containerId"`
	Position    Position `json:"position"`
}

// ReturnManifest lists the waste items selected for an undocking return
// flight, bounded by the vehicle's mass allowance.
type ReturnManifest struct {
	Items       []WasteItem `json:"items"`
	TotalMass   float64     `json:"totalMass"`
	TotalVolume float64     `json:"totalVolume"`
	LeftBehind  []string    `json:"leftBehind,omitempty"`
}
