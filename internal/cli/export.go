package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/export"
	"github.com/piwi3910/CargoStow/internal/project"
)

// newExportCmd creates the command that renders a stored result to one
// of the report formats.
func newExportCmd() *cobra.Command {
	var requestFile string
	var resultFile string
	var format string
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a stowage result as pdf, xlsx, labels or dxf",
		Long: `Renders a stored engine result. The request file supplies the container
geometry the diagrams are drawn against; the manifest (xlsx) format needs
only the result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := project.LoadResult(resultFile)
			if err != nil {
				return err
			}

			switch format {
			case "xlsx":
				if err := export.ExportManifest(outputFile, out); err != nil {
					return err
				}
			case "pdf", "labels", "dxf":
				req, err := project.LoadRequest(requestFile)
				if err != nil {
					return fmt.Errorf("format %s needs --request for container geometry: %w", format, err)
				}
				switch format {
				case "pdf":
					err = export.ExportPDF(outputFile, req.Containers, out)
				case "labels":
					err = export.ExportLabels(outputFile, req.Containers, out)
				case "dxf":
					err = export.ExportDXF(outputFile, req.Containers, out)
				}
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want pdf, xlsx, labels or dxf)", format)
			}

			printSuccess("exported " + outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resultFile, "result", "r", "", "engine result JSON file (required)")
	cmd.Flags().StringVarP(&requestFile, "request", "f", "", "request JSON file (for container geometry)")
	cmd.Flags().StringVar(&format, "format", "pdf", "output format: pdf, xlsx, labels, dxf")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file path (required)")
	cmd.MarkFlagRequired("result")
	cmd.MarkFlagRequired("output")

	return cmd
}
