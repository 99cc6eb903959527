package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/importer"
)

// newImportCmd creates the manifest import command. Imported records are
// emitted as JSON so they can be pasted into a request file or piped on.
func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import item or container manifests from CSV/XLSX",
	}
	cmd.AddCommand(newImportItemsCmd())
	cmd.AddCommand(newImportContainersCmd())
	return cmd
}

func newImportItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <file>",
		Short: "Import an item manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := importer.ImportItems(args[0])
			reportImportProblems(result.Warnings, result.Errors)
			if len(result.Items) == 0 {
				return fmt.Errorf("no items imported from %s", args[0])
			}
			printInfo(fmt.Sprintf("imported %d item(s)", len(result.Items)))
			return emitJSON(result.Items)
		},
	}
}

func newImportContainersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "containers <file>",
		Short: "Import a container manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := importer.ImportContainers(args[0])
			reportImportProblems(result.Warnings, result.Errors)
			if len(result.Containers) == 0 {
				return fmt.Errorf("no containers imported from %s", args[0])
			}
			printInfo(fmt.Sprintf("imported %d container(s)", len(result.Containers)))
			return emitJSON(result.Containers)
		},
	}
}

func reportImportProblems(warnings, errors []string) {
	for _, w := range warnings {
		printWarning(w)
	}
	for _, e := range errors {
		printError(e)
	}
}

func emitJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
