package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/CargoStow/internal/model"
)

// LabelInfo holds the data encoded into each item label's QR code.
type LabelInfo struct {
	ItemID      string  `json:"itemId"`
	ContainerID string  `json:"containerId"`
	Zone        string  `json:"zone,omitempty"`
	StartWidth  float64 `json:"start_w"`
	StartDepth  float64 `json:"start_d"`
	StartHeight float64 `json:"start_h"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns,
// 10 rows per page on US Letter).
const (
	labelPageWidth  = 215.9
	labelPageHeight = 279.4
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels, one per placed item.
// Each label carries the item id, its container and start coordinates,
// and a QR code encoding the same data as JSON so a handheld scanner can
// confirm the stow location.
func ExportLabels(path string, containers []model.Container, out model.EngineOutput) error {
	labels := CollectLabelInfos(containers, out)
	if len(labels) == 0 {
		return fmt.Errorf("no placements to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ItemID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%s", info.ItemID, info.ContainerID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	itemID := info.ItemID
	if pdf.GetStringWidth(itemID) > textW {
		for len(itemID) > 0 && pdf.GetStringWidth(itemID+"...") > textW {
			itemID = itemID[:len(itemID)-1]
		}
		itemID += "..."
	}
	pdf.CellFormat(textW, 4.5, itemID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	location := fmt.Sprintf("%s / %s", info.ContainerID, info.Zone)
	pdf.CellFormat(textW, 3.5, location, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	coords := fmt.Sprintf("@ (%.1f, %.1f, %.1f)", info.StartWidth, info.StartDepth, info.StartHeight)
	pdf.CellFormat(textW, 3, coords, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label data from a stowage result, in the
// result's placement order.
func CollectLabelInfos(containers []model.Container, out model.EngineOutput) []LabelInfo {
	zones := make(map[string]string, len(containers))
	for _, c := range containers {
		zones[c.ID] = c.Zone
	}

	var labels []LabelInfo
	for _, p := range out.Placements {
		labels = append(labels, LabelInfo{
			ItemID:      p.ItemID,
			ContainerID: p.ContainerID,
			Zone:        zones[p.ContainerID],
			StartWidth:  p.Position.Start.Width,
			StartDepth:  p.Position.Start.Depth,
			StartHeight: p.Position.Start.Height,
		})
	}
	return labels
}
