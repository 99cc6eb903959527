package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/CargoStow/internal/model"
)

// ExportDXF writes a top-view DXF drawing of the stowage: each container
// outlined on its own layer with a rectangle and id tag per placement.
// Containers are laid out left to right with a fixed gap so the drawing
// opens readably in any CAD viewer.
func ExportDXF(path string, containers []model.Container, out model.EngineOutput) error {
	if len(containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	byContainer := groupPlacements(out.Placements)

	d := dxf.NewDrawing()

	const gap = 20.0
	offsetX := 0.0
	for _, c := range containers {
		layer := fmt.Sprintf("CONTAINER_%s", c.ID)
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer for %s: %w", c.ID, err)
		}

		drawRect(d, offsetX, 0, c.Width, c.Depth)
		if _, err := d.Text(fmt.Sprintf("%s (%s)", c.ID, c.Zone), offsetX, -8.0, 0.0, 5.0); err != nil {
			return fmt.Errorf("failed to tag container %s: %w", c.ID, err)
		}

		for _, p := range byContainer[c.ID] {
			ext := p.Position.Extents()
			drawRect(d, offsetX+p.Position.Start.Width, p.Position.Start.Depth, ext.Width, ext.Depth)
			if _, err := d.Text(p.ItemID, offsetX+p.Position.Start.Width+1.0, p.Position.Start.Depth+1.0, 0.0, 2.5); err != nil {
				return fmt.Errorf("failed to tag item %s: %w", p.ItemID, err)
			}
		}

		offsetX += c.Width + gap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four lines on the current
// layer.
func drawRect(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0, x+w, y, 0)
	d.Line(x+w, y, 0, x+w, y+h, 0)
	d.Line(x+w, y+h, 0, x, y+h, 0)
	d.Line(x, y+h, 0, x, y, 0)
}
