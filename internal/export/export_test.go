package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CargoStow/internal/model"
)

// buildTestResult creates a realistic stowage result for testing.
func buildTestResult() ([]model.Container, model.EngineOutput) {
	containers := []model.Container{
		{ID: "contA", Zone: "Crew Quarters", Width: 100, Depth: 85, Height: 200},
		{ID: "contB", Zone: "Airlock", Width: 50, Depth: 85, Height: 200},
	}

	out := model.EngineOutput{
		Success: true,
		Placements: []model.PlacementResult{
			{
				ItemID:      "ITM-10",
				ContainerID: "contA",
				Position: model.Position{
					Start: model.Coordinates{Width: 0, Depth: 0, Height: 0},
					End:   model.Coordinates{Width: 10, Depth: 10, Height: 20},
				},
			},
			{
				ItemID:      "ITM-2",
				ContainerID: "contA",
				Position: model.Position{
					Start: model.Coordinates{Width: 10, Depth: 0, Height: 0},
					End:   model.Coordinates{Width: 25, Depth: 15, Height: 50},
				},
			},
			{
				ItemID:      "ITM-3",
				ContainerID: "contB",
				Position: model.Position{
					Start: model.Coordinates{Width: 0, Depth: 75, Height: 0},
					End:   model.Coordinates{Width: 10, Depth: 85, Height: 10},
				},
			},
		},
		Rearrangements: []model.RearrangementStep{
			{
				Step: 1, Action: "move", ItemID: "ITM-3",
				FromContainer: "contA",
				ToContainer:   "contB",
				ToPosition: model.Position{
					Start: model.Coordinates{Width: 0, Depth: 75, Height: 0},
					End:   model.Coordinates{Width: 10, Depth: 85, Height: 10},
				},
			},
		},
		FailedItemIDs: []string{},
	}
	return containers, out
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected output file at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("output file %s is empty", path)
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadplan.pdf")
	containers, out := buildTestResult()

	if err := ExportPDF(path, containers, out); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportPDF_NoContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadplan.pdf")

	if err := ExportPDF(path, nil, model.EngineOutput{}); err == nil {
		t.Fatal("expected error for empty container list")
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	containers, out := buildTestResult()

	if err := ExportLabels(path, containers, out); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportLabels_NoPlacements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	containers, _ := buildTestResult()

	if err := ExportLabels(path, containers, model.EngineOutput{}); err == nil {
		t.Fatal("expected error when nothing is placed")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	containers, out := buildTestResult()

	labels := CollectLabelInfos(containers, out)

	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}
	if labels[0].ItemID != "ITM-10" || labels[0].Zone != "Crew Quarters" {
		t.Errorf("unexpected first label: %+v", labels[0])
	}
	if labels[2].ContainerID != "contB" || labels[2].Zone != "Airlock" {
		t.Errorf("unexpected last label: %+v", labels[2])
	}
}

func TestExportManifest_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	_, out := buildTestResult()

	if err := ExportManifest(path, out); err != nil {
		t.Fatalf("ExportManifest returned error: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestSortedPlacements_NaturalOrder(t *testing.T) {
	_, out := buildTestResult()

	sorted := SortedPlacements(out.Placements)

	want := []string{"ITM-2", "ITM-3", "ITM-10"}
	for i, id := range want {
		if sorted[i].ItemID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, sorted[i].ItemID)
		}
	}
	if out.Placements[0].ItemID != "ITM-10" {
		t.Error("input slice must not be reordered")
	}
}

func TestExportDXF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadplan.dxf")
	containers, out := buildTestResult()

	if err := ExportDXF(path, containers, out); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportDXF_NoContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadplan.dxf")

	if err := ExportDXF(path, nil, model.EngineOutput{}); err == nil {
		t.Fatal("expected error for empty container list")
	}
}
