package export

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Sheet names in the exported manifest workbook.
const (
	sheetPlacements     = "Placements"
	sheetRearrangements = "Rearrangements"
	sheetFailed         = "Failed"
)

// ExportManifest writes the stowage result as an Excel workbook with one
// sheet per result kind. Placements are ordered naturally by item id so
// ITEM-2 sorts before ITEM-10.
func ExportManifest(path string, out model.EngineOutput) error {
	f := excelize.NewFile()
	defer f.Close()

	// Placements sheet replaces the default one.
	if err := f.SetSheetName("Sheet1", sheetPlacements); err != nil {
		return fmt.Errorf("failed to name placements sheet: %w", err)
	}

	headers := []interface{}{"Item", "Container", "Start W", "Start D", "Start H", "End W", "End D", "End H"}
	if err := setRow(f, sheetPlacements, 1, headers); err != nil {
		return err
	}
	for i, p := range SortedPlacements(out.Placements) {
		row := []interface{}{
			p.ItemID, p.ContainerID,
			p.Position.Start.Width, p.Position.Start.Depth, p.Position.Start.Height,
			p.Position.End.Width, p.Position.End.Depth, p.Position.End.Height,
		}
		if err := setRow(f, sheetPlacements, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetRearrangements); err != nil {
		return fmt.Errorf("failed to add rearrangements sheet: %w", err)
	}
	if err := setRow(f, sheetRearrangements, 1, []interface{}{"Step", "Action", "Item", "From", "To", "To W", "To D", "To H"}); err != nil {
		return err
	}
	for i, step := range out.Rearrangements {
		row := []interface{}{
			step.Step, step.Action, step.ItemID, step.FromContainer, step.ToContainer,
			step.ToPosition.Start.Width, step.ToPosition.Start.Depth, step.ToPosition.Start.Height,
		}
		if err := setRow(f, sheetRearrangements, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetFailed); err != nil {
		return fmt.Errorf("failed to add failed sheet: %w", err)
	}
	if err := setRow(f, sheetFailed, 1, []interface{}{"Item"}); err != nil {
		return err
	}
	for i, id := range out.FailedItemIDs {
		if err := setRow(f, sheetFailed, i+2, []interface{}{id}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}

// SortedPlacements returns the placements in natural item-id order
// without mutating the input.
func SortedPlacements(placements []model.PlacementResult) []model.PlacementResult {
	sorted := make([]model.PlacementResult, len(placements))
	copy(sorted, placements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return natural.Less(sorted[i].ItemID, sorted[j].ItemID)
	})
	return sorted
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
