// Package export renders stowage results to the formats the ops side
// consumes: PDF load plans, Excel manifests, QR part labels and DXF
// top-view drawings.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CargoStow/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

// itemColors is the rotating palette for placement rectangles.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF load plan. Each container gets its own page
// with a top-view (width x depth) diagram of its final placements and a
// volume-utilization stats line, followed by a summary page listing
// rearrangement moves and failed items.
func ExportPDF(path string, containers []model.Container, out model.EngineOutput) error {
	if len(containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	byContainer := groupPlacements(out.Placements)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, c := range containers {
		pdf.AddPage()
		renderContainerPage(pdf, c, byContainer[c.ID], i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, containers, out)

	return pdf.OutputFileAndClose(path)
}

// groupPlacements indexes final placements by container, keeping the
// output order within each container.
func groupPlacements(placements []model.PlacementResult) map[string][]model.PlacementResult {
	grouped := make(map[string][]model.PlacementResult)
	for _, p := range placements {
		grouped[p.ContainerID] = append(grouped[p.ContainerID], p)
	}
	return grouped
}

// usedVolume sums the volume of the given placements.
func usedVolume(placements []model.PlacementResult) float64 {
	var total float64
	for _, p := range placements {
		total += p.Position.Volume()
	}
	return total
}

// renderContainerPage draws one container's top view on the current page.
func renderContainerPage(pdf *fpdf.Fpdf, c model.Container, placements []model.PlacementResult, pageNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Container %d: %s / zone %s (%.0f x %.0f x %.0f)", pageNum, c.ID, c.Zone, c.Width, c.Depth, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	utilization := 0.0
	if c.Volume() > 0 {
		utilization = usedVolume(placements) / c.Volume() * 100.0
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used volume: %.1f | Cavity volume: %.1f | Utilization: %.1f%%",
		len(placements), usedVolume(placements), c.Volume(), utilization)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scaleX := drawWidth / c.Width
	scaleY := drawHeight / c.Depth
	scale := math.Min(scaleX, scaleY)

	canvasW := c.Width * scale
	canvasH := c.Depth * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Cavity background; the top edge of the diagram is the opening.
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	pdf.SetFont("Helvetica", "I", 7)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(offsetX, offsetY-4)
	pdf.CellFormat(canvasW, 3.5, "opening (depth 0)", "", 0, "C", false, 0, "")

	for i, p := range placements {
		col := itemColors[i%len(itemColors)]
		ext := p.Position.Extents()
		pw := ext.Width * scale
		ph := ext.Depth * scale
		px := offsetX + p.Position.Start.Width*scale
		py := offsetY + p.Position.Start.Depth*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(0, 0, 0)
		label := fmt.Sprintf("%s h%.0f-%.0f", p.ItemID, p.Position.Start.Height, p.Position.End.Height)
		if pdf.GetStringWidth(label) < pw {
			pdf.SetXY(px, py+ph/2-2)
			pdf.CellFormat(pw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage lists batch-level results: rearrangement moves in
// execution order and any items that could not be placed.
func renderSummaryPage(pdf *fpdf.Fpdf, containers []model.Container, out model.EngineOutput) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Stowage Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	status := "COMPLETE"
	if !out.Success {
		status = "INCOMPLETE"
	}
	line := fmt.Sprintf("Status: %s | Containers: %d | Placements: %d | Moves: %d | Failed: %d",
		status, len(containers), len(out.Placements), len(out.Rearrangements), len(out.FailedItemIDs))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 1, "L", false, 0, "")

	y := marginTop + headerHeight + 10
	if len(out.Rearrangements) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(0, 6, "Rearrangement moves", "", 1, "L", false, 0, "")
		y += 7

		pdf.SetFont("Helvetica", "", 9)
		for _, step := range out.Rearrangements {
			pdf.SetXY(marginLeft, y)
			text := fmt.Sprintf("%d. %s %s: %s -> %s at (%.1f, %.1f, %.1f)",
				step.Step, step.Action, step.ItemID, step.FromContainer, step.ToContainer,
				step.ToPosition.Start.Width, step.ToPosition.Start.Depth, step.ToPosition.Start.Height)
			pdf.CellFormat(0, 5, text, "", 1, "L", false, 0, "")
			y += 5
		}
		y += 5
	}

	if len(out.FailedItemIDs) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(180, 30, 30)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(0, 6, "Failed items", "", 1, "L", false, 0, "")
		y += 7

		pdf.SetFont("Helvetica", "", 9)
		for _, id := range out.FailedItemIDs {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(0, 5, id, "", 1, "L", false, 0, "")
			y += 5
		}
		pdf.SetTextColor(0, 0, 0)
	}
}
