package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/engine"
	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/piwi3910/CargoStow/internal/project"
)

// newRetrieveCmd creates the retrieval planning command: given the live
// state in a request file, print the steps to get one item out.
func newRetrieveCmd() *cobra.Command {
	var requestFile string
	var itemID string
	var itemName string

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Plan the retrieval of an item from the current stowage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if itemID == "" && itemName == "" {
				return fmt.Errorf("one of --item or --name is required")
			}

			req, err := project.LoadRequest(requestFile)
			if err != nil {
				return err
			}

			itemsByID := make(map[string]model.Item, len(req.Items))
			for _, it := range req.Items {
				itemsByID[it.ID] = it
			}

			result := engine.SearchItem(itemID, itemName, req.CurrentPlacements, itemsByID)
			if !result.Found {
				return fmt.Errorf("item not found in any container")
			}

			printInfo(fmt.Sprintf("found in %s at (%.1f, %.1f, %.1f)",
				result.Placement.ContainerID,
				result.Placement.Position.Start.Width,
				result.Placement.Position.Start.Depth,
				result.Placement.Position.Start.Height))
			for _, step := range result.Steps {
				name := step.ItemName
				if name != "" {
					name = " (" + name + ")"
				}
				printInfo(fmt.Sprintf("%d. %s %s%s", step.Step, step.Action, step.ItemID, name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestFile, "request", "f", "", "request JSON file with current placements (required)")
	cmd.Flags().StringVar(&itemID, "item", "", "item id to retrieve")
	cmd.Flags().StringVar(&itemName, "name", "", "item name to retrieve")
	cmd.MarkFlagRequired("request")

	return cmd
}

// newWasteCmd creates the waste planning command: flag expired/depleted
// items and build an undocking return manifest within a mass allowance.
func newWasteCmd() *cobra.Command {
	var requestFile string
	var maxMass float64

	cmd := &cobra.Command{
		Use:   "waste",
		Short: "Identify waste items and plan an undocking return manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := project.LoadRequest(requestFile)
			if err != nil {
				return err
			}

			waste := engine.IdentifyWaste(req.Items, req.CurrentPlacements, time.Now().UTC())
			if len(waste) == 0 {
				printSuccess("no waste items identified")
				return nil
			}

			for _, w := range waste {
				printWarning(fmt.Sprintf("%s (%s): %s in %s", w.ItemID, w.Name, w.Reason, w.ContainerID))
			}

			manifest := engine.PlanReturn(waste, maxMass)
			printInfo(fmt.Sprintf("return manifest: %d item(s), %.1f kg, %.1f volume",
				len(manifest.Items), manifest.TotalMass, manifest.TotalVolume))
			for _, id := range manifest.LeftBehind {
				printWarning("left behind (over mass allowance): " + id)
			}
			return emitJSON(manifest)
		},
	}

	cmd.Flags().StringVarP(&requestFile, "request", "f", "", "request JSON file with items and current placements (required)")
	cmd.Flags().Float64Var(&maxMass, "max-mass", 100, "return vehicle mass allowance")
	cmd.MarkFlagRequired("request")

	return cmd
}
