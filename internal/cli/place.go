package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/engine"
	"github.com/piwi3910/CargoStow/internal/project"
)

// newPlaceCmd creates the one-shot placement command: run the engine on
// a request file without touching the queue.
func newPlaceCmd() *cobra.Command {
	var requestFile string
	var outputFile string

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Run the placement engine on a request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := project.LoadRequest(requestFile)
			if err != nil {
				return err
			}

			out := engine.PlaceBatch(req.Items, req.Containers, req.CurrentPlacements)

			if out.Success {
				printSuccess(fmt.Sprintf("placed %d item(s), %d rearrangement move(s)",
					len(out.Placements), len(out.Rearrangements)))
			} else {
				printError(out.Error)
			}

			if outputFile != "" {
				if err := project.SaveResult(outputFile, out); err != nil {
					return err
				}
				printInfo("result written to " + outputFile)
			} else {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(out); err != nil {
					return err
				}
			}

			if !out.Success {
				return fmt.Errorf("%d item(s) could not be placed", len(out.FailedItemIDs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestFile, "request", "f", "", "placement request JSON file (required)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the result JSON here instead of stdout")
	cmd.MarkFlagRequired("request")

	return cmd
}
